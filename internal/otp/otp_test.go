package otp

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randbytes/internal/randbytes"
)

func TestEncryptRoundTrip(t *testing.T) {
	for _, msg := range []string{"hi", "this is interesting", "☃", ""} {
		t.Run(msg, func(t *testing.T) {
			res, err := Encrypt([]byte(msg), randbytes.SystemSource)
			require.NoError(t, err)

			bits := float64(len(msg) * 8)
			assert.Equal(t, bits, res.KeyEntropy)
			assert.Equal(t, bits, res.CiphertextEntropy)
			require.Len(t, res.Ciphertext, len(msg))
			require.Len(t, res.Key, len(msg))

			plain, err := Decrypt(res.Ciphertext, res.Key)
			require.NoError(t, err)
			assert.Equal(t, msg, string(plain))
		})
	}
}

func TestEncryptHi(t *testing.T) {
	res, err := Encrypt([]byte("hi"), randbytes.SystemSource)
	require.NoError(t, err)
	assert.Equal(t, 16.0, res.KeyEntropy)

	plain, err := Decrypt(res.Ciphertext, res.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte{'h', 'i'}, plain)
}

func TestEncryptShortSource(t *testing.T) {
	_, err := Encrypt([]byte("four"), bytes.NewReader([]byte{1}))
	require.Error(t, err)
}

func TestDecryptLengthMismatch(t *testing.T) {
	_, err := Decrypt([]byte{1, 2, 3}, []byte{1})
	require.ErrorIs(t, err, randbytes.ErrLengthMismatch)
}

func TestSealOpen(t *testing.T) {
	env, secret, err := Seal([]byte("attack at dawn"), randbytes.SystemSource)
	require.NoError(t, err)
	assert.Equal(t, Commit(secret.Key, secret.Blind), env.Commitment)

	plain, err := Open(env, secret)
	require.NoError(t, err)
	assert.Equal(t, "attack at dawn", string(plain))

	t.Run("wrong key", func(t *testing.T) {
		bad := &Secret{Key: append([]byte(nil), secret.Key...), Blind: secret.Blind}
		bad.Key[0] ^= 0x01
		_, err := Open(env, bad)
		require.ErrorIs(t, err, ErrCommitmentMismatch)
	})

	t.Run("wrong blind", func(t *testing.T) {
		bad := &Secret{Key: secret.Key, Blind: append([]byte(nil), secret.Blind...)}
		bad.Blind[len(bad.Blind)-1] ^= 0x01
		_, err := Open(env, bad)
		require.ErrorIs(t, err, ErrCommitmentMismatch)
	})
}

// fixedKeySource hands out key first, then system randomness.
func fixedKeySource(key []byte) randbytes.Source {
	return io.MultiReader(bytes.NewReader(key), randbytes.SystemSource)
}

func TestSealSameKeyDiffers(t *testing.T) {
	key := []byte{0x5a, 0xc3}
	a, sa, err := Seal([]byte("hi"), fixedKeySource(key))
	require.NoError(t, err)
	b, sb, err := Seal([]byte("hi"), fixedKeySource(key))
	require.NoError(t, err)

	require.Equal(t, key, sa.Key)
	require.Equal(t, key, sb.Key)
	assert.Equal(t, a.Ciphertext, b.Ciphertext)
	assert.NotEqual(t, a.Commitment, b.Commitment)
}

func TestCommitHidesShortKey(t *testing.T) {
	env, secret, err := Seal([]byte("x"), randbytes.SystemSource)
	require.NoError(t, err)

	// every one-byte key, hashed without the blind
	for k := 0; k < 256; k++ {
		assert.NotEqual(t, env.Commitment, Commit([]byte{byte(k)}, nil))
	}
	assert.Equal(t, env.Commitment, Commit(secret.Key, secret.Blind))
}

func TestCommit(t *testing.T) {
	blind := bytes.Repeat([]byte{0x42}, blindSize)
	a := Commit([]byte{0x00, 0xff}, blind)
	b := Commit([]byte{0x00, 0xff}, blind)
	c := Commit([]byte{0x00, 0xfe}, blind)
	d := Commit([]byte{0x00, 0xff}, bytes.Repeat([]byte{0x43}, blindSize))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.NotEmpty(t, a)
}

func TestNewBlindShortSource(t *testing.T) {
	_, err := NewBlind(bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
}

func TestSecretFile(t *testing.T) {
	secret := &Secret{Key: []byte{1, 2, 3}, Blind: bytes.Repeat([]byte{7}, blindSize)}
	path := filepath.Join(t.TempDir(), "msg.key")
	require.NoError(t, secret.SaveToFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadSecretFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, secret, loaded)

	_, err = LoadSecretFromFile(filepath.Join(t.TempDir(), "missing.key"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvelopeFile(t *testing.T) {
	env := &Envelope{
		Ciphertext: []byte{1, 2, 3},
		Commitment: Commit([]byte{4, 5, 6}, []byte{9}),
	}
	path := filepath.Join(t.TempDir(), "msg.cbor")
	require.NoError(t, env.SaveToFile(path))

	loaded, err := LoadEnvelopeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, env.Ciphertext, loaded.Ciphertext)
	assert.Equal(t, env.Commitment, loaded.Commitment)
	assert.Empty(t, loaded.Proof)

	_, err = UnmarshalEnvelope([]byte{0xff, 0x00})
	require.Error(t, err)
}
