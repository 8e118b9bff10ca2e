// envelope.go - CBOR envelope for ciphertexts.

package otp

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Envelope is what travels: ciphertext, key commitment and an optional proof.
type Envelope struct {
	Ciphertext []byte `cbor:"1,keyasint"`
	Commitment []byte `cbor:"2,keyasint"`
	Proof      []byte `cbor:"3,keyasint,omitempty"`
}

// Marshal encodes the envelope as CBOR.
func (e *Envelope) Marshal() ([]byte, error) {
	return cbor.Marshal(e)
}

// UnmarshalEnvelope decodes a CBOR envelope.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return &e, nil
}

// SaveToFile writes the envelope to path, replacing any existing file.
func (e *Envelope) SaveToFile(path string) error {
	data, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnvelopeFromFile reads an envelope written by SaveToFile.
func LoadEnvelopeFromFile(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalEnvelope(data)
}
