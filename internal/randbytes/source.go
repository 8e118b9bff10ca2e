// source.go - Randomness sources for fresh buffers.
//
// SystemSource reads the operating system CSPRNG. ChaChaSource expands a
// 32-byte seed with ChaCha20 and is meant for reproducible runs; its output
// is only as secret as the seed.

package randbytes

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// Source supplies random bytes.
type Source = io.Reader

// SystemSource is the operating system's secure random number generator.
var SystemSource Source = rand.Reader

// ChaChaSource is a deterministic keystream generator seeded with a 256-bit key.
type ChaChaSource struct {
	c *chacha20.Cipher
}

// NewChaChaSource creates a keystream source from a 32-byte seed.
func NewChaChaSource(seed []byte) (*ChaChaSource, error) {
	if len(seed) != chacha20.KeySize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidLength, chacha20.KeySize, len(seed))
	}
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(seed, nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to create chacha20 stream: %w", err)
	}
	return &ChaChaSource{c: c}, nil
}

// Read fills p with keystream bytes. It never fails.
func (s *ChaChaSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.c.XORKeyStream(p, p)
	return len(p), nil
}

// Generate returns a fresh buffer of n bytes from SystemSource.
func Generate(n int) (*Buffer, error) {
	return GenerateFrom(SystemSource, n)
}

// GenerateFrom returns a fresh buffer of n bytes read from src.
// Every bit of the result has probability 0.5 of being 1.
func GenerateFrom(src Source, n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d bytes requested", ErrInvalidLength, n)
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(src, raw); err != nil {
		return nil, fmt.Errorf("failed to read %d random bytes: %w", n, err)
	}
	prOne := make([]float64, n*8)
	for i := range prOne {
		prOne[i] = 0.5
	}
	return &Buffer{
		n:     n,
		bits:  bitSetFromBytes(raw),
		prOne: prOne,
	}, nil
}

// LockedSource serializes reads from an underlying source so that one
// source can feed buffers generated on several goroutines.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src.
func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Read(p)
}
