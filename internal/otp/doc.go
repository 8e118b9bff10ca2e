// Package otp is a one-time pad built on probabilistic bit buffers.
//
// Overview:
//   - Encrypt draws a key buffer as long as the message, checks that it carries
//     full min-entropy, XORs it with the message and checks the ciphertext
//   - Decrypt and Open recover the plaintext with a plain byte-wise XOR
//   - Commit binds a key with a blinded MiMC hash over its bits (BW6-761 scalar field)
//   - Prove/Verify produce and check a Groth16 proof that a ciphertext is the
//     XOR of some plaintext with the committed key
//
// Envelopes (ciphertext, key commitment, optional proof) are CBOR encoded.
// The key and its commitment blinding (a Secret) never go into an envelope.
//
// WARNING: a key must never be reused. The package enforces that for buffers,
// not for key bytes handed back to the caller.
package otp
