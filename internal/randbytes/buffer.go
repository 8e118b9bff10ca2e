// buffer.go - The probabilistic bit buffer and its read operations.

package randbytes

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Buffer is a fixed-length bit string plus, for every bit, the probability
// that the bit is 1. Buffers are created by Generate/GenerateFrom or returned
// by an operator, and are consumed exactly once.
type Buffer struct {
	n        int            // length in bytes
	bits     *bitset.BitSet // bit i is byte i/8, MSB first
	prOne    []float64      // prOne[i] = Pr[bit i == 1]
	consumed bool
}

// Operand is a right-hand side accepted by And, Or and Xor: Bits or *Buffer.
type Operand interface {
	bitLen() int
}

func newBuffer(n int, bits *bitset.BitSet, prOne []float64) *Buffer {
	return &Buffer{n: n, bits: bits, prOne: prOne}
}

func (b *Buffer) bitLen() int {
	return b.n * 8
}

// Consumed reports whether the buffer has been spent.
func (b *Buffer) Consumed() bool {
	return b.consumed
}

// Len returns the length in bytes.
func (b *Buffer) Len() (int, error) {
	if b.consumed {
		return 0, ErrBufferConsumed
	}
	return b.n, nil
}

// BitLen returns the length in bits.
func (b *Buffer) BitLen() (int, error) {
	if b.consumed {
		return 0, ErrBufferConsumed
	}
	return b.bitLen(), nil
}

// Probabilities returns a copy of the per-bit probability of being 1.
// It does not consume the buffer.
func (b *Buffer) Probabilities() ([]float64, error) {
	if b.consumed {
		return nil, ErrBufferConsumed
	}
	out := make([]float64, len(b.prOne))
	copy(out, b.prOne)
	return out, nil
}

// ExtractBits returns the concrete bits and consumes the buffer.
func (b *Buffer) ExtractBits() (Bits, error) {
	if b.consumed {
		return nil, fmt.Errorf("extract bits: %w", ErrBufferConsumed)
	}
	out := bitsFromBitSet(b.bits, b.bitLen())
	b.consume()
	return out, nil
}

// ExtractBytes is ExtractBits packed into bytes. It consumes the buffer.
func (b *Buffer) ExtractBytes() ([]byte, error) {
	bits, err := b.ExtractBits()
	if err != nil {
		return nil, err
	}
	return bits.Bytes(), nil
}

// consume retires the buffer and wipes its bit storage.
func (b *Buffer) consume() {
	b.consumed = true
	if b.bits != nil {
		b.bits.ClearAll()
	}
	b.bits = nil
	b.prOne = nil
}
