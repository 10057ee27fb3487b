package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jacklau/authorship/internal/vectorize"
)

// EncodeCounts serializes a count vector to a BLOB of little-endian uint32s.
func EncodeCounts(v vectorize.Vector) ([]byte, error) {
	buf := make([]byte, len(v)*4)
	for i, n := range v {
		if n < 0 || uint64(n) > math.MaxUint32 {
			return nil, fmt.Errorf("count %d at dimension %d out of range", n, i)
		}
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(n))
	}
	return buf, nil
}

// DecodeCounts deserializes a BLOB produced by EncodeCounts.
func DecodeCounts(b []byte) (vectorize.Vector, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(b))
	}

	v := make(vectorize.Vector, len(b)/4)
	for i := range v {
		v[i] = int(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
