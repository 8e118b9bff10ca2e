// Package randbytes implements probabilistic bit buffers: random byte strings
// that carry, next to their concrete bits, the probability that each bit is 1.
//
// Overview:
//   - Generate draws fresh bytes from a secure source; every bit starts at p = 0.5
//   - And, Or, Xor and Not propagate both the bits and the probabilities
//   - Entropy reports Shannon or min-entropy of the current probability vector
//   - ExtractBits hands out the raw bits and retires the buffer
//
// Consumption Model:
//   - A buffer is single use. Using it as an operand, or extracting its bits,
//     marks it consumed; every later call on it returns ErrBufferConsumed
//   - Failed calls never consume anything
//   - Operands are assumed independent, except for self application
//     (SelfAnd, SelfOr, SelfXor, or passing the receiver as its own operand)
//
// Buffers are not safe for concurrent use. Hand each buffer to one goroutine.
package randbytes
