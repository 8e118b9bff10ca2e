package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randbytes/internal/randbytes"
)

func TestAllScenariosPass(t *testing.T) {
	for _, s := range All() {
		t.Run(s.Name, func(t *testing.T) {
			rep, err := s.Run(randbytes.SystemSource)
			require.NoError(t, err)
			require.NotNil(t, rep)
			assert.NotEmpty(t, rep.Description)
		})
	}
}

func TestOTPReport(t *testing.T) {
	rep, err := OTP("hi")(randbytes.SystemSource)
	require.NoError(t, err)
	assert.Equal(t, 16, rep.Bits)
	assert.Equal(t, 16.0, rep.MinEntropy)
	assert.Equal(t, "hi", rep.Plaintext)
	assert.Len(t, rep.Ciphertext, 2)
}

func TestNewAndEntropy(t *testing.T) {
	rep, err := NewAnd(randbytes.SystemSource)
	require.NoError(t, err)
	assert.Greater(t, rep.MinEntropy, 24.0)
	assert.Less(t, rep.MinEntropy, 28.0)
}
