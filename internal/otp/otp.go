// otp.go - Encryption and decryption.

package otp

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"randbytes/internal/randbytes"
)

var (
	// ErrKeyEntropy is returned when a fresh key does not carry one bit of min-entropy per bit.
	ErrKeyEntropy = errors.New("key entropy below message length")

	// ErrCiphertextEntropy is returned when the ciphertext does not carry full min-entropy.
	ErrCiphertextEntropy = errors.New("ciphertext entropy below message length")

	// ErrCommitmentMismatch is returned by Open when the secret does not match the envelope.
	ErrCommitmentMismatch = errors.New("key does not match commitment")
)

// Result holds the output of Encrypt. Key is the raw pad; keep it secret and use it once.
type Result struct {
	Ciphertext        []byte
	Key               []byte
	KeyEntropy        float64 // min-entropy of the key before use, in bits
	CiphertextEntropy float64 // min-entropy of the ciphertext, in bits
}

// Encrypt XORs msg with a fresh key read from src.
// Steps:
//  1. Expand msg into bits (big-endian within each byte)
//  2. Draw a key buffer of the same length, keeping a copy of the pad bytes
//  3. Check the key carries len(msg)*8 bits of min-entropy
//  4. XOR the key buffer with the message bits
//  5. Check the ciphertext still carries full min-entropy, then extract it
func Encrypt(msg []byte, src randbytes.Source) (*Result, error) {
	m := randbytes.BitsFromBytes(msg)

	var pad bytes.Buffer
	key, err := randbytes.GenerateFrom(io.TeeReader(src, &pad), len(msg))
	if err != nil {
		return nil, fmt.Errorf("key generation failed: %w", err)
	}

	keyEntropy, err := key.Entropy(randbytes.MinEntropy)
	if err != nil {
		return nil, err
	}
	if keyEntropy != float64(m.Len()) {
		return nil, fmt.Errorf("%w: %v bits for %d message bits", ErrKeyEntropy, keyEntropy, m.Len())
	}

	c, err := key.Xor(m)
	if err != nil {
		return nil, fmt.Errorf("xor failed: %w", err)
	}
	cEntropy, err := c.Entropy(randbytes.MinEntropy)
	if err != nil {
		return nil, err
	}
	if cEntropy != float64(m.Len()) {
		return nil, fmt.Errorf("%w: %v bits for %d message bits", ErrCiphertextEntropy, cEntropy, m.Len())
	}

	ciphertext, err := c.ExtractBytes()
	if err != nil {
		return nil, err
	}
	return &Result{
		Ciphertext:        ciphertext,
		Key:               pad.Bytes(),
		KeyEntropy:        keyEntropy,
		CiphertextEntropy: cEntropy,
	}, nil
}

// Decrypt XORs ciphertext with key byte by byte.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) != len(key) {
		return nil, fmt.Errorf("decrypt: %w: %d ciphertext bytes, %d key bytes",
			randbytes.ErrLengthMismatch, len(ciphertext), len(key))
	}
	out := make([]byte, len(ciphertext))
	for i := range ciphertext {
		out[i] = ciphertext[i] ^ key[i]
	}
	return out, nil
}

// Seal encrypts msg and wraps the ciphertext with a blinded commitment to
// the key. The pad and the blinding are returned to the caller, never sealed.
func Seal(msg []byte, src randbytes.Source) (*Envelope, *Secret, error) {
	res, err := Encrypt(msg, src)
	if err != nil {
		return nil, nil, err
	}
	blind, err := NewBlind(src)
	if err != nil {
		return nil, nil, err
	}
	secret := &Secret{Key: res.Key, Blind: blind}
	return &Envelope{
		Ciphertext: res.Ciphertext,
		Commitment: Commit(secret.Key, secret.Blind),
	}, secret, nil
}

// Open checks the secret against the envelope commitment and decrypts.
func Open(env *Envelope, secret *Secret) ([]byte, error) {
	if !bytes.Equal(Commit(secret.Key, secret.Blind), env.Commitment) {
		return nil, ErrCommitmentMismatch
	}
	return Decrypt(env.Ciphertext, secret.Key)
}
