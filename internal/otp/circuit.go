package otp

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// Circuit proves that Ciphertext = Plaintext XOR Key bit by bit and that
// KeyCommitment = MiMC(R, Key) for a private blinding element R. Slices are sized by NewCircuit before compiling.
type Circuit struct {
	// Public inputs
	Ciphertext    []frontend.Variable `gnark:",public"`
	KeyCommitment frontend.Variable   `gnark:",public"`

	// Private inputs
	Plaintext []frontend.Variable
	Key       []frontend.Variable
	R         frontend.Variable
}

// NewCircuit allocates a circuit for messages of nbBits bits.
func NewCircuit(nbBits int) *Circuit {
	return &Circuit{
		Ciphertext: make([]frontend.Variable, nbBits),
		Plaintext:  make([]frontend.Variable, nbBits),
		Key:        make([]frontend.Variable, nbBits),
	}
}

// Define implements the XOR and commitment constraints.
func (c *Circuit) Define(api frontend.API) error {
	if len(c.Plaintext) != len(c.Ciphertext) || len(c.Key) != len(c.Ciphertext) {
		return fmt.Errorf("circuit sizes differ: ciphertext %d, plaintext %d, key %d",
			len(c.Ciphertext), len(c.Plaintext), len(c.Key))
	}
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	hasher.Write(c.R)
	for i := range c.Ciphertext {
		api.AssertIsBoolean(c.Plaintext[i])
		api.AssertIsBoolean(c.Key[i])
		api.AssertIsEqual(c.Ciphertext[i], api.Xor(c.Plaintext[i], c.Key[i]))
		hasher.Write(c.Key[i])
	}
	api.AssertIsEqual(c.KeyCommitment, hasher.Sum())
	return nil
}
