package randbytes

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a negative byte length is requested.
	ErrInvalidLength = errors.New("invalid length")

	// ErrBufferConsumed is returned by any read on a consumed buffer.
	ErrBufferConsumed = errors.New("buffer consumed")

	// ErrBufferAlreadyConsumed is returned when a consumed buffer is used as an
	// operand. It matches ErrBufferConsumed under errors.Is.
	ErrBufferAlreadyConsumed = fmt.Errorf("%w: cannot be used as an operand", ErrBufferConsumed)

	// ErrLengthMismatch is returned when operands have different bit lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnsupportedOperand is returned for operands that are neither Bits nor a Buffer.
	ErrUnsupportedOperand = errors.New("unsupported operand type")
)

// ErrUnknownEntropyKind is returned by Entropy for an EntropyKind it does not know.
var ErrUnknownEntropyKind = errors.New("unknown entropy kind")
