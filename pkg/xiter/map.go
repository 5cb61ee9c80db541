//go:build go1.23

package xiter

import (
	"iter"
)

// Map takes a function and creates an iterator which calls that function f on each element.
func Map[T, O any](x iter.Seq[T], f func(T) O) iter.Seq[O] {
	return func(yield func(O) bool) {
		for v := range x {
			if !yield(f(v)) {
				break
			}
		}
	}
}

// MapFunc takes a function and creates an iterator which calls that function f on each element.
func MapFunc[T, O any](f func(T) O) MappingFunc[T, O] {
	return bind2(Map, f)
}
