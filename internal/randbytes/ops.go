// ops.go - Bitwise operators with probability propagation.
//
// Every operator validates all operands before touching any state, so a
// failed call leaves the receiver and the operand live. On success the
// receiver and any buffer operand are consumed and a new buffer is returned.

package randbytes

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

type binaryOp int

const (
	opAnd binaryOp = iota
	opOr
	opXor
)

func (op binaryOp) String() string {
	switch op {
	case opAnd:
		return "and"
	case opOr:
		return "or"
	default:
		return "xor"
	}
}

// And returns b AND other. Operands are treated as independent unless other is b itself.
func (b *Buffer) And(other Operand) (*Buffer, error) {
	return b.apply(opAnd, other)
}

// Or returns b OR other. Operands are treated as independent unless other is b itself.
func (b *Buffer) Or(other Operand) (*Buffer, error) {
	return b.apply(opOr, other)
}

// Xor returns b XOR other. Operands are treated as independent unless other is b itself.
func (b *Buffer) Xor(other Operand) (*Buffer, error) {
	return b.apply(opXor, other)
}

// SelfAnd is b AND b. The result is b with the same probabilities.
func (b *Buffer) SelfAnd() (*Buffer, error) {
	return b.applySelfChecked(opAnd)
}

// SelfOr is b OR b. The result is b with the same probabilities.
func (b *Buffer) SelfOr() (*Buffer, error) {
	return b.applySelfChecked(opOr)
}

// SelfXor is b XOR b. Every bit of the result is 0 with certainty.
func (b *Buffer) SelfXor() (*Buffer, error) {
	return b.applySelfChecked(opXor)
}

// Not negates every bit and replaces p with 1-p. It consumes b.
func (b *Buffer) Not() (*Buffer, error) {
	if b.consumed {
		return nil, fmt.Errorf("not: %w", ErrBufferAlreadyConsumed)
	}
	prOne := make([]float64, len(b.prOne))
	for i, p := range b.prOne {
		prOne[i] = 1 - p
	}
	out := newBuffer(b.n, b.bits.Complement(), prOne)
	b.consume()
	return out, nil
}

func (b *Buffer) apply(op binaryOp, other Operand) (*Buffer, error) {
	if b.consumed {
		return nil, fmt.Errorf("%s: receiver: %w", op, ErrBufferAlreadyConsumed)
	}
	switch o := other.(type) {
	case Bits:
		if o.bitLen() != b.bitLen() {
			return nil, fmt.Errorf("%s: %w: %d bits vs %d bits", op, ErrLengthMismatch, b.bitLen(), o.bitLen())
		}
		out := b.applyBits(op, o)
		b.consume()
		return out, nil
	case *Buffer:
		if o == nil {
			return nil, fmt.Errorf("%s: %w: nil buffer", op, ErrUnsupportedOperand)
		}
		if o == b {
			return b.applySelf(op), nil
		}
		if o.consumed {
			return nil, fmt.Errorf("%s: operand: %w", op, ErrBufferAlreadyConsumed)
		}
		if o.bitLen() != b.bitLen() {
			return nil, fmt.Errorf("%s: %w: %d bits vs %d bits", op, ErrLengthMismatch, b.bitLen(), o.bitLen())
		}
		out := b.applyBuffer(op, o)
		b.consume()
		o.consume()
		return out, nil
	default:
		return nil, fmt.Errorf("%s: %w: %T", op, ErrUnsupportedOperand, other)
	}
}

// applyBits combines b with a known literal. The literal bit either fixes
// the outcome (AND 0, OR 1), flips it (XOR 1) or leaves it alone.
func (b *Buffer) applyBits(op binaryOp, lit Bits) *Buffer {
	other := lit.toBitSet()
	prOne := make([]float64, len(b.prOne))
	copy(prOne, b.prOne)
	var bits *bitset.BitSet
	switch op {
	case opAnd:
		bits = b.bits.Intersection(other)
		for i, v := range lit {
			if !v {
				prOne[i] = 0
			}
		}
	case opOr:
		bits = b.bits.Union(other)
		for i, v := range lit {
			if v {
				prOne[i] = 1
			}
		}
	case opXor:
		bits = b.bits.SymmetricDifference(other)
		for i, v := range lit {
			if v {
				prOne[i] = 1 - prOne[i]
			}
		}
	}
	return newBuffer(b.n, bits, prOne)
}

// applyBuffer combines two independent buffers of equal length.
func (b *Buffer) applyBuffer(op binaryOp, o *Buffer) *Buffer {
	prOne := make([]float64, len(b.prOne))
	var bits *bitset.BitSet
	switch op {
	case opAnd:
		bits = b.bits.Intersection(o.bits)
		for i, p := range b.prOne {
			prOne[i] = p * o.prOne[i]
		}
	case opOr:
		bits = b.bits.Union(o.bits)
		for i, p := range b.prOne {
			prOne[i] = 1 - (1-p)*(1-o.prOne[i])
		}
	case opXor:
		bits = b.bits.SymmetricDifference(o.bits)
		for i, p := range b.prOne {
			q := o.prOne[i]
			prOne[i] = p*(1-q) + q*(1-p)
		}
	}
	return newBuffer(b.n, bits, prOne)
}

func (b *Buffer) applySelfChecked(op binaryOp) (*Buffer, error) {
	if b.consumed {
		return nil, fmt.Errorf("self %s: %w", op, ErrBufferAlreadyConsumed)
	}
	return b.applySelf(op), nil
}

// applySelf handles perfectly correlated operands: x AND x = x OR x = x,
// x XOR x = 0.
func (b *Buffer) applySelf(op binaryOp) *Buffer {
	var out *Buffer
	switch op {
	case opXor:
		out = newBuffer(b.n, bitset.New(uint(b.bitLen())), make([]float64, len(b.prOne)))
	default:
		prOne := make([]float64, len(b.prOne))
		copy(prOne, b.prOne)
		out = newBuffer(b.n, b.bits.Clone(), prOne)
	}
	b.consume()
	return out
}
