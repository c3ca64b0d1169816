package paseto

import (
	"encoding/binary"
	"math"
)

// PAE is the pre-authentication encoding:
//
//	LE64(len(pieces)) || for each piece: LE64(len(piece)) || piece
//
// The most significant bit of every length is cleared. Lengths are fixed
// width, so distinct piece sequences never encode to the same bytes.
func PAE(pieces ...[]byte) []byte {
	size := 8
	for _, p := range pieces {
		size += 8 + len(p)
	}

	buf := make([]byte, 0, size)
	buf = le64(buf, len(pieces))
	for _, p := range pieces {
		buf = le64(buf, len(p))
		buf = append(buf, p...)
	}
	return buf
}

func le64(buf []byte, n int) []byte {
	return binary.LittleEndian.AppendUint64(buf, uint64(n)&math.MaxInt64)
}
