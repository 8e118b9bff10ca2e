// prove.go - Groth16 proofs for one-time pad envelopes.
//
// Circuits are sized per message length, so proving and verifying keys are
// too. Keys are cached on disk under names that carry the byte length.

package otp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"randbytes/internal/randbytes"
)

// ErrEmptyMessage is returned when asked to prove an empty message.
var ErrEmptyMessage = errors.New("cannot prove an empty message")

// CompileCircuit compiles the circuit for messages of nbBytes bytes.
func CompileCircuit(nbBytes int) (constraint.ConstraintSystem, error) {
	if nbBytes <= 0 {
		return nil, ErrEmptyMessage
	}
	ccs, err := frontend.Compile(ecc.BW6_761.ScalarField(), r1cs.NewBuilder, NewCircuit(nbBytes*8))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	return ccs, nil
}

// Assignment builds a full witness assignment. Plaintext, key and ciphertext
// must have the same length.
func Assignment(plaintext []byte, secret *Secret, ciphertext []byte) (*Circuit, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyMessage
	}
	key := secret.Key
	if len(key) != len(plaintext) || len(ciphertext) != len(plaintext) {
		return nil, fmt.Errorf("assignment: %w: plaintext %d, key %d, ciphertext %d bytes",
			randbytes.ErrLengthMismatch, len(plaintext), len(key), len(ciphertext))
	}
	c := publicAssignment(ciphertext, Commit(key, secret.Blind))
	c.R = blindInt(secret.Blind)
	p := randbytes.BitsFromBytes(plaintext)
	k := randbytes.BitsFromBytes(key)
	c.Plaintext = make([]frontend.Variable, len(p))
	c.Key = make([]frontend.Variable, len(k))
	for i := range p {
		c.Plaintext[i] = bitValue(p[i])
		c.Key[i] = bitValue(k[i])
	}
	return c, nil
}

func publicAssignment(ciphertext, commitment []byte) *Circuit {
	bits := randbytes.BitsFromBytes(ciphertext)
	c := &Circuit{
		Ciphertext:    make([]frontend.Variable, len(bits)),
		KeyCommitment: commitmentInt(commitment),
	}
	for i, b := range bits {
		c.Ciphertext[i] = bitValue(b)
	}
	return c
}

func bitValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Prove generates a Groth16 proof for env, given the plaintext and secret it was sealed with.
// On success env.Proof is set and also returned.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, env *Envelope, plaintext []byte, secret *Secret) ([]byte, error) {
	assignment, err := Assignment(plaintext, secret, env.Ciphertext)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(Commit(secret.Key, secret.Blind), env.Commitment) {
		return nil, ErrCommitmentMismatch
	}
	w, err := frontend.NewWitness(assignment, ecc.BW6_761.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	var proofBuf bytes.Buffer
	if _, err := proof.WriteTo(&proofBuf); err != nil {
		return nil, fmt.Errorf("proof marshaling failed: %w", err)
	}
	env.Proof = proofBuf.Bytes()
	return env.Proof, nil
}

// Verify checks env.Proof against the envelope's ciphertext and commitment.
func Verify(vk groth16.VerifyingKey, env *Envelope) error {
	if len(env.Proof) == 0 {
		return errors.New("envelope carries no proof")
	}
	if len(env.Ciphertext) == 0 {
		return ErrEmptyMessage
	}
	w, err := frontend.NewWitness(publicAssignment(env.Ciphertext, env.Commitment), ecc.BW6_761.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	proof := groth16.NewProof(ecc.BW6_761)
	if _, err := proof.ReadFrom(bytes.NewReader(env.Proof)); err != nil {
		return fmt.Errorf("proof unmarshaling failed: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}
