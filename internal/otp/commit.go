// commit.go - Blinded MiMC key commitment.
//
// The commitment is MiMC(r, k_0, ..., k_{8n-1}) over the BW6-761 scalar field:
// a random blinding element r first, then each key bit as its own field
// element (0 or 1) in message bit order. The in-circuit hash consumes the
// same elements without any packing. Without r a short key could be found
// by hashing every candidate.

package otp

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
	"github.com/fxamacker/cbor/v2"

	"randbytes/internal/randbytes"
)

// blindSize is the number of random bytes reduced into the blinding element.
const blindSize = 64

// Secret is what the key holder keeps: the pad and the commitment blinding.
// Neither field ever goes into an Envelope.
type Secret struct {
	Key   []byte `cbor:"1,keyasint"`
	Blind []byte `cbor:"2,keyasint"`
}

// NewBlind draws a blinding value from src.
func NewBlind(src randbytes.Source) ([]byte, error) {
	b := make([]byte, blindSize)
	if _, err := io.ReadFull(src, b); err != nil {
		return nil, fmt.Errorf("failed to read blinding: %w", err)
	}
	return b, nil
}

// Commit returns MiMC(r, k_0, ..., k_{8n-1}) where r is blind reduced into the field.
func Commit(key, blind []byte) []byte {
	h := mimcNative.NewMiMC()
	r := blindElement(blind)
	rb := r.Bytes()
	h.Write(rb[:])

	var zero, one fr.Element
	one.SetOne()
	zb, ob := zero.Bytes(), one.Bytes()
	for _, bit := range randbytes.BitsFromBytes(key) {
		if bit {
			h.Write(ob[:])
		} else {
			h.Write(zb[:])
		}
	}
	return h.Sum(nil)
}

func blindElement(blind []byte) fr.Element {
	var r fr.Element
	r.SetBytes(blind)
	return r
}

// blindInt is the blinding element as a witness value.
func blindInt(blind []byte) *big.Int {
	r := blindElement(blind)
	return r.BigInt(new(big.Int))
}

// commitmentInt is the commitment as a field element for witnesses.
func commitmentInt(c []byte) *big.Int {
	return new(big.Int).SetBytes(c)
}

// SaveToFile writes the secret to path, readable by the owner only.
func (s *Secret) SaveToFile(path string) error {
	data, err := cbor.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode secret: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadSecretFromFile reads a secret written by SaveToFile.
func LoadSecretFromFile(path string) (*Secret, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Secret
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode secret: %w", err)
	}
	return &s, nil
}
