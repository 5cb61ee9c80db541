// Package morton implements the Morton (Z-order) key algebra that underlies
// the linear octree: encoding of points into keys, ancestor/descendant and
// sibling/neighbor queries, and the near-field / interaction-list primitives
// used by the FMM-style relation maps.
package morton

import (
	"fmt"

	"github.com/flier/octree/octreeerr"
)

// LMax is the deepest level a Key can represent. Kept as a compile-time
// constant rather than a runtime parameter: 3*LMax+levelBits bits must fit in
// a uint64, which bounds LMax at 19 before the level field would need to
// grow. Promoting this to a runtime parameter would require widening Key to
// a 128-bit integer; see DESIGN.md.
const LMax = 16

// levelBits is the number of low bits of a Key reserved for the level field.
// 5 bits hold 0..31, comfortably covering 0..LMax.
const levelBits = 5

const levelMask = (uint64(1) << levelBits) - 1

// fullRes is the width, in bits, of an anchor coordinate expressed at the
// finest (LMax) resolution.
const fullRes = LMax

// Key is a 64-bit Morton key: the low levelBits bits hold the level in
// [0, LMax], and the remaining high bits hold the Z-order interleaving of the
// key's anchor, expressed in finest-resolution (level-LMax) units. Encoding
// anchors at finest resolution regardless of a key's own level means that
// plain integer comparison of two Keys already yields the order the rest of
// this module relies on: a coarse key sorts before every one of its
// descendants (those sharing its anchor follow it in order of level), and
// otherwise keys sort by spatial position.
type Key uint64

// Root is the key of the level-0 cell covering the entire domain.
const Root Key = 0

// Anchor is the integer coordinate, in units of the finest (LMax) grid, of a
// key's minimal corner. Components lie in [0, 2^LMax).
type Anchor struct {
	X, Y, Z uint32
}

// New builds a Key from a finest-resolution anchor and a level, after
// clearing the bits below the level's resolution so the anchor represents
// the aligned corner of the level-ℓ cell containing it.
//
// Panics if level > LMax; this is a programmer error, not a recoverable
// condition (see §4.5 of the design: invalid input fails fast).
func New(anchor Anchor, level uint8) Key {
	if level > LMax {
		panic(fmt.Errorf("morton: level %d exceeds LMax %d: %w", level, LMax, octreeerr.ErrLevelOverflow))
	}

	mask := uint32(0)
	if shift := uint(fullRes - level); shift < 32 {
		mask = (uint32(1) << shift) - 1
	}

	code := interleave(anchor.X&^mask, anchor.Y&^mask, anchor.Z&^mask)

	return Key(code<<levelBits | uint64(level))
}

// Level returns the level encoded in k, in [0, LMax].
func (k Key) Level() uint8 { return uint8(uint64(k) & levelMask) }

// Anchor returns the finest-resolution anchor encoded in k.
func (k Key) Anchor() Anchor {
	x, y, z := deinterleave(uint64(k) >> levelBits)
	return Anchor{X: x, Y: y, Z: z}
}

// cellSpan returns 2^(LMax-level), the side length (in finest-resolution
// units) of a cell at the given level.
func cellSpan(level uint8) uint32 {
	return uint32(1) << uint(fullRes-level)
}

// Span returns the side length of k's cell, in finest-resolution (level-LMax)
// units: cellSpan(k.Level()), exported for callers (e.g. sink/vtk) that need
// to turn a Key back into a world-space voxel.
func (k Key) Span() uint32 { return cellSpan(k.Level()) }

// String renders k as "L<level>@(x,y,z)" for debugging and log output.
func (k Key) String() string {
	a := k.Anchor()
	return fmt.Sprintf("L%d@(%d,%d,%d)", k.Level(), a.X, a.Y, a.Z)
}

// Compare orders two keys: by integer value, which (see the Key doc comment)
// already matches Morton order with ties between a cell and its deepest-first
// descendant broken in favor of the coarser (ancestor) key.
func Compare(a, b Key) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// interleave bit-interleaves three values with up to LMax significant bits
// each into a single integer in Z (x, then y, then z) order, using the
// standard "magic bits" dilation.
func interleave(x, y, z uint32) uint64 {
	return spread3(uint64(x)) | spread3(uint64(y))<<1 | spread3(uint64(z))<<2
}

// deinterleave is the inverse of interleave.
func deinterleave(code uint64) (x, y, z uint32) {
	return uint32(compact3(code)), uint32(compact3(code >> 1)), uint32(compact3(code >> 2))
}

// spread3 spreads the low 21 bits of x so that each bit i moves to position
// 3i, leaving the two bits in between clear. Only the low LMax bits are ever
// populated by this module, but the dilation is the standard 21-bit form
// (it is a no-op on the unused high bits).
func spread3(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

// compact3 is the inverse of spread3: it gathers every third bit of x,
// starting at bit 0, back into a contiguous integer.
func compact3(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x | x>>2) & 0x10c30c30c30c30c3
	x = (x | x>>4) & 0x100f00f00f00f00f
	x = (x | x>>8) & 0x1f0000ff0000ff
	x = (x | x>>16) & 0x1f00000000ffff
	x = (x | x>>32) & 0x1fffff
	return x
}
