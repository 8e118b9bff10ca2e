// bits.go - Plain (non-probabilistic) bit sequences.

package randbytes

import "github.com/bits-and-blooms/bitset"

// Bits is a known bit sequence, most significant bit of each byte first.
// It can be used as an operand but carries no probability and is never consumed.
type Bits []bool

// BitsFromBytes expands b into its bits, big-endian within each byte.
func BitsFromBytes(b []byte) Bits {
	out := make(Bits, len(b)*8)
	for i, v := range b {
		for j := 0; j < 8; j++ {
			out[i*8+j] = v&(0x80>>uint(j)) != 0
		}
	}
	return out
}

// Bytes packs the bits back into bytes. A trailing partial byte is zero padded.
func (b Bits) Bytes() []byte {
	out := make([]byte, (len(b)+7)/8)
	for i, v := range b {
		if v {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return out
}

// Len returns the number of bits.
func (b Bits) Len() int {
	return len(b)
}

func (b Bits) bitLen() int {
	return len(b)
}

func (b Bits) toBitSet() *bitset.BitSet {
	s := bitset.New(uint(len(b)))
	for i, v := range b {
		if v {
			s.Set(uint(i))
		}
	}
	return s
}

// bitSetFromBytes maps byte i, bit j (MSB first) to index i*8+j.
func bitSetFromBytes(b []byte) *bitset.BitSet {
	s := bitset.New(uint(len(b) * 8))
	for i, v := range b {
		for j := 0; j < 8; j++ {
			if v&(0x80>>uint(j)) != 0 {
				s.Set(uint(i*8 + j))
			}
		}
	}
	return s
}

func bitsFromBitSet(s *bitset.BitSet, n int) Bits {
	out := make(Bits, n)
	for i := range out {
		out[i] = s.Test(uint(i))
	}
	return out
}
