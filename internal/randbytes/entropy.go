package randbytes

import (
	"fmt"
	"math"
)

// EntropyKind selects the per-bit entropy measure.
type EntropyKind int

const (
	// Shannon is the average information content of a bit.
	Shannon EntropyKind = iota
	// MinEntropy is the guessing resistance of a bit, -log2(max(p, 1-p)).
	MinEntropy
)

func (k EntropyKind) String() string {
	switch k {
	case Shannon:
		return "shannon"
	case MinEntropy:
		return "min-entropy"
	default:
		return fmt.Sprintf("EntropyKind(%d)", int(k))
	}
}

// ParseEntropyKind maps "shannon" or "min" / "min-entropy" to an EntropyKind.
func ParseEntropyKind(s string) (EntropyKind, error) {
	switch s {
	case "shannon":
		return Shannon, nil
	case "min", "min-entropy", "minentropy":
		return MinEntropy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEntropyKind, s)
}

// ShannonEntropy returns the Shannon entropy, in bits, of a bit that is 1 with probability p.
func ShannonEntropy(p float64) float64 {
	if p == 0 || p == 1 {
		return 0
	}
	return -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
}

// BitMinEntropy returns the min-entropy, in bits, of a bit that is 1 with probability p.
func BitMinEntropy(p float64) float64 {
	if p == 0 || p == 1 {
		return 0
	}
	return -math.Log2(math.Max(p, 1-p))
}

// Entropy sums the per-bit entropy of the buffer. It does not consume the buffer.
func (b *Buffer) Entropy(kind EntropyKind) (float64, error) {
	if b.consumed {
		return 0, ErrBufferConsumed
	}
	var f func(float64) float64
	switch kind {
	case Shannon:
		f = ShannonEntropy
	case MinEntropy:
		f = BitMinEntropy
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownEntropyKind, kind)
	}
	var sum float64
	for _, p := range b.prOne {
		sum += f(p)
	}
	return sum, nil
}
