// Package scenario holds the end-to-end checks run by the demo binaries.
// Every scenario owns the buffers it creates, so scenarios may run concurrently.
package scenario

import (
	"errors"
	"fmt"

	"randbytes/internal/otp"
	"randbytes/internal/randbytes"
)

// ErrCheckFailed is returned when a scenario's entropy or plaintext check fails.
var ErrCheckFailed = errors.New("scenario check failed")

// Scenario is a named check.
type Scenario struct {
	Name string
	Run  func(src randbytes.Source) (*Report, error)
}

// Report is what a successful scenario observed.
type Report struct {
	Bits        int
	MinEntropy  float64
	Ciphertext  []byte
	Plaintext   string
	Description string
}

// All returns the default scenario set: two pads, a self-XOR and an uncorrelated AND.
func All() []Scenario {
	return []Scenario{
		{Name: "otp-ascii", Run: OTP("this is interesting")},
		{Name: "otp-utf8", Run: OTP("☃")},
		{Name: "self-xor", Run: SelfXor},
		{Name: "and-uncorrelated", Run: NewAnd},
	}
}

// OTP encrypts msg with a fresh pad and checks that decryption recovers it.
func OTP(msg string) func(src randbytes.Source) (*Report, error) {
	return func(src randbytes.Source) (*Report, error) {
		res, err := otp.Encrypt([]byte(msg), src)
		if err != nil {
			return nil, err
		}
		plain, err := otp.Decrypt(res.Ciphertext, res.Key)
		if err != nil {
			return nil, err
		}
		if string(plain) != msg {
			return nil, fmt.Errorf("%w: decrypted %q, want %q", ErrCheckFailed, plain, msg)
		}
		return &Report{
			Bits:        len(msg) * 8,
			MinEntropy:  res.CiphertextEntropy,
			Ciphertext:  res.Ciphertext,
			Plaintext:   string(plain),
			Description: "one-time pad round trip",
		}, nil
	}
}

// SelfXor checks that a 4-byte buffer XORed with itself has no entropy left.
func SelfXor(src randbytes.Source) (*Report, error) {
	i, err := randbytes.GenerateFrom(src, 4)
	if err != nil {
		return nil, err
	}
	j, err := i.SelfXor()
	if err != nil {
		return nil, err
	}
	h, err := j.Entropy(randbytes.MinEntropy)
	if err != nil {
		return nil, err
	}
	if h != 0 {
		return nil, fmt.Errorf("%w: self xor left %v bits", ErrCheckFailed, h)
	}
	return &Report{Bits: 32, MinEntropy: h, Description: "x xor x"}, nil
}

// NewAnd checks that two independent 8-byte buffers ANDed together keep
// between 24 and 28 bits of min-entropy (64 bits at p = 0.25).
func NewAnd(src randbytes.Source) (*Report, error) {
	i, err := randbytes.GenerateFrom(src, 8)
	if err != nil {
		return nil, err
	}
	j, err := randbytes.GenerateFrom(src, 8)
	if err != nil {
		return nil, err
	}
	k, err := i.And(j)
	if err != nil {
		return nil, err
	}
	h, err := k.Entropy(randbytes.MinEntropy)
	if err != nil {
		return nil, err
	}
	if h <= 24 || h >= 28 {
		return nil, fmt.Errorf("%w: and kept %v bits, want (24, 28)", ErrCheckFailed, h)
	}
	return &Report{Bits: 64, MinEntropy: h, Description: "x and y, independent"}, nil
}
