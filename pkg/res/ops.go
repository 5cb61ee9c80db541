package res

// Maps a Result[T] to Result[U] by applying a function to a contained Ok value, leaving an Err value untouched.
func Map[T any, U any](r Result[T], f func(T) U) Result[U] {
	if r.IsErr() {
		return Err[U](r.Err)
	}

	return Ok(f(r.unwrap()))
}

// Calls op if the res is Ok, otherwise returns the Err value of res.
func AndThen[T, U any](res Result[T], op func(T) Result[U]) Result[U] {
	if res.IsErr() {
		return Err[U](res.Err)
	}

	return op(res.unwrap())
}
