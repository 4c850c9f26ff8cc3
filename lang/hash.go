package lang

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/zeebo/xxh3"
)

// Encoding tags distinguishing value shapes in the canonical form.
const (
	tagNumber byte = 'n'
	tagVector byte = 'v'
	tagSet    byte = 's'
)

// Hash returns a structural hash of v consistent with [Equal]: equal values
// always hash equally. Set hashes do not depend on insertion order.
func Hash(v Value) uint64 {
	return xxh3.Hash(appendCanonical(nil, v))
}

// appendCanonical appends the canonical encoding of v to b.
func appendCanonical(b []byte, v Value) []byte {
	switch x := v.(type) {
	case Number:
		return binary.LittleEndian.AppendUint64(append(b, tagNumber), canonicalBits(x))

	case *Vector:
		b = append(b, tagVector)
		b = binary.AppendUvarint(b, uint64(len(x.Elems)))

		for _, e := range x.Elems {
			b = binary.LittleEndian.AppendUint64(b, Hash(e))
		}

		return b

	case *Set:
		sums := make([]uint64, 0, x.Len())
		for e := range x.Values() {
			sums = append(sums, Hash(e))
		}

		slices.Sort(sums)

		b = append(b, tagSet)
		b = binary.AppendUvarint(b, uint64(len(sums)))

		for _, s := range sums {
			b = binary.LittleEndian.AppendUint64(b, s)
		}

		return b

	default:
		return b
	}
}

// canonicalBits maps every NaN to one bit pattern and -0 to +0.
func canonicalBits(n Number) uint64 {
	f := float64(n)

	switch {
	case math.IsNaN(f):
		return math.Float64bits(math.NaN())
	case f == 0:
		return 0
	default:
		return math.Float64bits(f)
	}
}
