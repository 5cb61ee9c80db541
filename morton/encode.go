package morton

import (
	"fmt"
	"math"

	"github.com/flier/octree/octreeerr"
)

// EncodePoint computes the Key at the given level of a point already
// translated into Domain-relative coordinates in [0,1)^3, following §4.1:
// ai = floor(xi * 2^level), clamped to [0, 2^level - 1], then widened to
// finest resolution to form the key's anchor.
func EncodePoint(relative [3]float64, level uint8) Key {
	if level > LMax {
		panic(fmt.Errorf("morton: encode level %d exceeds LMax %d: %w", level, LMax, octreeerr.ErrLevelOverflow))
	}

	scale := float64(uint32(1) << level)
	maxIdx := uint32(1)<<level - 1

	clamp := func(v float64) uint32 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Errorf("morton: non-finite coordinate %v: %w", v, octreeerr.ErrNonFiniteCoordinate))
		}

		idx := int64(math.Floor(v * scale))
		switch {
		case idx < 0:
			return 0
		case idx > int64(maxIdx):
			return maxIdx
		default:
			return uint32(idx)
		}
	}

	levelAnchor := Anchor{X: clamp(relative[0]), Y: clamp(relative[1]), Z: clamp(relative[2])}

	// levelAnchor is expressed in level-ℓ units; widen to finest resolution
	// before interleaving by shifting into place, matching New's contract.
	shift := uint(fullRes - level)
	finest := Anchor{
		X: levelAnchor.X << shift,
		Y: levelAnchor.Y << shift,
		Z: levelAnchor.Z << shift,
	}

	return New(finest, level)
}

// Decode returns the Domain-relative coordinate of k's minimal corner, the
// inverse half of the encode/decode round-trip law: encoding Decode(k) at
// k.Level() reproduces k.
func (k Key) Decode() (relative [3]float64) {
	a := k.Anchor()
	scale := 1.0 / float64(uint64(1)<<fullRes)

	return [3]float64{float64(a.X) * scale, float64(a.Y) * scale, float64(a.Z) * scale}
}
