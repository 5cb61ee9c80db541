package partition

import (
	"encoding/binary"
	"math"

	"github.com/flier/octree/morton"
	"github.com/flier/octree/point"
)

// keySize is the wire width of a single morton.Key. Points and keys travel
// between ranks as flat little-endian byte payloads over comm.Communicator's
// [][]byte collectives; no ecosystem serialization library appears anywhere
// in the corpus this module is grounded on, and the fixed-width, all-numeric
// fields here have nothing for a general-purpose codec to buy over
// encoding/binary (see DESIGN.md).
const keySize = 8

// pointSize is the wire width of one point.Point: three float64 coordinates,
// a uint64 GlobalIndex, and a uint64-encoded Key.
const pointSize = 3*8 + 8 + 8

func encodeKeys(keys []morton.Key) []byte {
	buf := make([]byte, len(keys)*keySize)
	for i, k := range keys {
		binary.LittleEndian.PutUint64(buf[i*keySize:], uint64(k))
	}
	return buf
}

func decodeKeys(b []byte) []morton.Key {
	n := len(b) / keySize
	out := make([]morton.Key, n)
	for i := range out {
		out[i] = morton.Key(binary.LittleEndian.Uint64(b[i*keySize:]))
	}
	return out
}

func encodePoints(pts []point.Point) []byte {
	buf := make([]byte, len(pts)*pointSize)
	for i, p := range pts {
		off := i * pointSize
		for d := 0; d < 3; d++ {
			binary.LittleEndian.PutUint64(buf[off+d*8:], math.Float64bits(p.Coordinate[d]))
		}
		binary.LittleEndian.PutUint64(buf[off+24:], p.GlobalIndex)
		binary.LittleEndian.PutUint64(buf[off+32:], uint64(p.Key))
	}
	return buf
}

func decodePoints(b []byte) []point.Point {
	n := len(b) / pointSize
	out := make([]point.Point, n)
	for i := range out {
		off := i * pointSize
		var coord [3]float64
		for d := 0; d < 3; d++ {
			coord[d] = math.Float64frombits(binary.LittleEndian.Uint64(b[off+d*8:]))
		}
		out[i] = point.Point{
			Coordinate:  coord,
			GlobalIndex: binary.LittleEndian.Uint64(b[off+24:]),
			Key:         morton.Key(binary.LittleEndian.Uint64(b[off+32:])),
		}
	}
	return out
}
