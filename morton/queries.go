package morton

import (
	"sort"

	"github.com/flier/octree/pkg/opt"
)

// Parent returns the unique key at level-1 whose cell contains k. Root (level
// 0) has no parent, reported as opt.None rather than a sentinel Key value.
func (k Key) Parent() opt.Option[Key] {
	level := k.Level()
	if level == 0 {
		return opt.None[Key]()
	}

	return opt.Some(ancestorAt(k, level-1))
}

// ancestorAt returns the ancestor of k at the given level, which must be <=
// k.Level(). Shared by Parent, Ancestors, IsAncestor and FinestAncestor.
func ancestorAt(k Key, level uint8) Key {
	a := k.Anchor()
	shift := uint(fullRes - level)

	var mask uint32
	if shift < 32 {
		mask = (uint32(1) << shift) - 1
	}

	return New(Anchor{X: a.X &^ mask, Y: a.Y &^ mask, Z: a.Z &^ mask}, level)
}

// Children returns the eight keys at level ℓ+1 whose cells tile k's cell, in
// ascending Morton order.
//
// Panics if k is already at LMax: there is no finer level to descend into.
func (k Key) Children() [8]Key {
	level := k.Level()
	if level >= LMax {
		panic("morton: cannot take children of a key at LMax")
	}

	a := k.Anchor()
	offset := cellSpan(level + 1)

	var out [8]Key
	i := 0
	for dz := uint32(0); dz <= 1; dz++ {
		for dy := uint32(0); dy <= 1; dy++ {
			for dx := uint32(0); dx <= 1; dx++ {
				out[i] = New(Anchor{
					X: a.X + dx*offset,
					Y: a.Y + dy*offset,
					Z: a.Z + dz*offset,
				}, level+1)
				i++
			}
		}
	}

	sort.Slice(out[:], func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Siblings returns the eight keys (including k itself) at k's level that
// share k's parent, in ascending Morton order. The root has no siblings
// other than itself.
func (k Key) Siblings() []Key {
	parent := k.Parent()
	if parent.IsNone() {
		return []Key{k}
	}

	children := parent.Unwrap().Children()
	return children[:]
}

// Ancestors returns the chain from root to k inclusive, length k.Level()+1,
// ordered from root to k.
func (k Key) Ancestors() []Key {
	level := k.Level()
	out := make([]Key, level+1)
	for l := uint8(0); l <= level; l++ {
		out[l] = ancestorAt(k, l)
	}
	return out
}

// IsAncestor reports whether a is a strict ancestor of d: a's level is
// smaller, and the ancestor of d at a's level equals a.
func IsAncestor(a, d Key) bool {
	if a.Level() >= d.Level() {
		return false
	}
	return ancestorAt(d, a.Level()) == a
}

// FinestAncestor returns the deepest common ancestor of a and b: the key
// whose anchor shares the longest interleaved prefix with both, at the
// minimum of the two levels. The search is bounded by LMax and is therefore
// O(1) in the sense the design intends: a fixed, small number of iterations
// independent of tree size.
func FinestAncestor(a, b Key) Key {
	level := a.Level()
	if b.Level() < level {
		level = b.Level()
	}

	for l := level; ; l-- {
		if ancestorAt(a, l) == ancestorAt(b, l) {
			return ancestorAt(a, l)
		}
		if l == 0 {
			break
		}
	}

	return Root
}

// Neighbors returns up to 26 same-level keys whose anchors differ by ±1 cell
// in any dimension; neighbors that would fall outside the domain are
// omitted.
func (k Key) Neighbors() []Key {
	level := k.Level()
	a := k.Anchor()
	offset := cellSpan(level)
	limit := uint32(1) << fullRes

	out := make([]Key, 0, 26)

	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}

				nx, ok1 := shiftAnchor(a.X, dx, offset, limit)
				ny, ok2 := shiftAnchor(a.Y, dy, offset, limit)
				nz, ok3 := shiftAnchor(a.Z, dz, offset, limit)
				if !ok1 || !ok2 || !ok3 {
					continue
				}

				out = append(out, New(Anchor{X: nx, Y: ny, Z: nz}, level))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// shiftAnchor offsets a single anchor component by delta cells of the given
// span, reporting false if the result falls outside [0, limit).
func shiftAnchor(v uint32, delta int, span, limit uint32) (uint32, bool) {
	switch {
	case delta < 0:
		if v < span {
			return 0, false
		}
		return v - span, true
	case delta > 0:
		nv := v + span
		if nv >= limit {
			return 0, false
		}
		return nv, true
	default:
		return v, true
	}
}

// DeepestFirstDescendant returns the level-LMax key sharing k's anchor: the
// Morton-smallest key whose cell lies within k's cell. For k already at LMax,
// returns k itself.
func (k Key) DeepestFirstDescendant() Key {
	return New(k.Anchor(), LMax)
}

// DeepestLastDescendant returns the level-LMax key at the far corner of k's
// cell: the Morton-largest key whose cell lies within k's cell. Together with
// DeepestFirstDescendant it brackets the full finest-resolution range k's
// subtree spans, which region completion and balancing use to test whether a
// candidate cell lies inside, outside, or straddling a gap between two keys.
func (k Key) DeepestLastDescendant() Key {
	a := k.Anchor()
	span := cellSpan(k.Level())
	return New(Anchor{X: a.X + span - 1, Y: a.Y + span - 1, Z: a.Z + span - 1}, LMax)
}

// ComputeNearField returns k's near field: k itself together with its
// same-level neighbors.
func ComputeNearField(k Key) []Key {
	neighbors := k.Neighbors()
	out := make([]Key, 0, len(neighbors)+1)
	out = append(out, k)
	out = append(out, neighbors...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ComputeInteractionList returns the classic FMM interaction list for k:
// children of the parent's near field that are not themselves in k's near
// field. Empty for the root, which has no parent.
func ComputeInteractionList(k Key) []Key {
	parent := k.Parent()
	if parent.IsNone() {
		return nil
	}

	near := ComputeNearField(k)
	inNear := make(map[Key]struct{}, len(near))
	for _, n := range near {
		inNear[n] = struct{}{}
	}

	seen := make(map[Key]struct{})
	out := make([]Key, 0, 189)

	for _, n := range ComputeNearField(parent.Unwrap()) {
		for _, c := range n.Children() {
			if _, skip := inNear[c]; skip {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
