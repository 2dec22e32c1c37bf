package kiwi

import (
	"fmt"
	"math"

	"github.com/reoring/kiwi/wire"
)

// MinWireSizes returns, per definition, the fewest bytes one encoded value
// can occupy: one for an enum or a message, the sum of the fields for a
// struct. An array field counts as one byte, its length prefix. Structs
// made only of empty structs have size zero. Field types that reference no
// definition, and struct cycles, count as zero.
func MinWireSizes(defs []*Definition) []int {
	sizes := make([]int, len(defs))
	state := make([]uint8, len(defs)) // 0 unvisited, 1 visiting, 2 done
	var visit func(i int) int
	visit = func(i int) int {
		switch state[i] {
		case 1:
			return 0
		case 2:
			return sizes[i]
		}
		state[i] = 1
		n := int64(1)
		if defs[i].Kind == KindStruct {
			n = 0
			for _, f := range defs[i].Fields {
				switch {
				case f.IsArray, f.Type.IsPrimitive():
					n++
				case f.Type >= 0 && int(f.Type) < len(defs):
					n += int64(visit(int(f.Type)))
				}
				// Saturate so nested structs cannot overflow.
				n = min(n, math.MaxInt32)
			}
		}
		sizes[i] = int(n)
		state[i] = 2
		return sizes[i]
	}
	for i := range defs {
		visit(i)
	}
	return sizes
}

// MinWireSize returns the fewest bytes an encoded value of type t can
// occupy. Every primitive takes at least one byte.
func (s *Schema) MinWireSize(t TypeRef) int {
	if t.IsPrimitive() {
		return 1
	}
	if t < 0 || int(t) >= len(s.minSizes) {
		return 0
	}
	return s.minSizes[t]
}

// CheckArrayLen fails with CodeOutOfBounds when n elements of at least size
// bytes each cannot fit in what remains of bb. Arrays of zero-size elements
// are not bounded by the input length.
func CheckArrayLen(bb *wire.Buffer, n uint32, size int) error {
	need := uint64(n) * uint64(size)
	if need <= uint64(bb.Remaining()) {
		return nil
	}
	return &Issue{
		Code:    CodeOutOfBounds,
		Offset:  bb.Offset(),
		Message: fmt.Sprintf("%d elements need at least %d bytes, %d remain", n, need, bb.Remaining()),
		Cause:   wire.ErrOutOfBounds,
	}
}
