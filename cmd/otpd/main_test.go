package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randbytes/internal/otp"
	"randbytes/internal/randbytes"
)

func newTestApp(t *testing.T, config *Config) (*App, *bytes.Buffer) {
	t.Helper()
	if config == nil {
		config = DefaultConfig()
	}
	config.KeyDir = t.TempDir()
	require.NoError(t, config.Validate())

	logger, err := NewLogger(io.Discard, "error", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	var out bytes.Buffer
	app, err := NewApp(config, logger, &out)
	require.NoError(t, err)
	return app, &out
}

func TestDemo(t *testing.T) {
	app, out := newTestApp(t, nil)
	require.NoError(t, app.Run([]string{"demo"}))

	text := out.String()
	assert.NotContains(t, text, "FAIL")
	for _, name := range []string{"otp-ascii", "otp-utf8", "self-xor", "and-uncorrelated", "otp:hi"} {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "Decrypted message: this is interesting")
	assert.Contains(t, text, "Decrypted message: ☃")

	m := app.Metrics.GetMetric(MetricScenarioRuns, map[string]string{"scenario": "self-xor"})
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Value)
	g := app.Metrics.GetMetric(MetricMinEntropyBits, map[string]string{"scenario": "otp:hi"})
	require.NotNil(t, g)
	assert.Equal(t, 16.0, g.Value)
}

func TestDemoSeeded(t *testing.T) {
	config := DefaultConfig()
	config.SeedHex = strings.Repeat("ab", 32)
	config.MaxConcurrency = 2
	app, out := newTestApp(t, config)
	require.NoError(t, app.Run([]string{"demo"}))
	assert.NotContains(t, out.String(), "FAIL")
}

func TestEncryptDecrypt(t *testing.T) {
	app, out := newTestApp(t, nil)
	dir := t.TempDir()
	envPath := filepath.Join(dir, "msg.cbor")
	keyPath := filepath.Join(dir, "msg.key")

	require.NoError(t, app.Run([]string{"encrypt", "-msg", "hi", "-out", envPath, "-key", keyPath}))
	assert.Contains(t, out.String(), "Bytes: 2")

	secret, err := otp.LoadSecretFromFile(keyPath)
	require.NoError(t, err)
	require.Len(t, secret.Key, 2)
	env, err := otp.LoadEnvelopeFromFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, otp.Commit(secret.Key, secret.Blind), env.Commitment)

	// the envelope alone does not carry the blinding
	raw, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), string(secret.Blind))

	out.Reset()
	require.NoError(t, app.Run([]string{"decrypt", "-in", envPath, "-key", keyPath}))
	assert.Equal(t, "Decrypted message: hi\n", out.String())

	t.Run("wrong key", func(t *testing.T) {
		bad := &otp.Secret{Key: []byte{secret.Key[0] ^ 1, secret.Key[1]}, Blind: secret.Blind}
		require.NoError(t, bad.SaveToFile(keyPath))
		err := app.Run([]string{"decrypt", "-in", envPath, "-key", keyPath})
		require.ErrorIs(t, err, otp.ErrCommitmentMismatch)
	})

	t.Run("raw pad as key file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(keyPath, secret.Key, 0600))
		require.Error(t, app.Run([]string{"decrypt", "-in", envPath, "-key", keyPath}))
	})

	m := app.Metrics.GetMetric(MetricBytesEncrypted, nil)
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.Value)
}

func TestEncryptRequiresMessage(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.Error(t, app.Run([]string{"encrypt"}))
}

func TestEntropyCommand(t *testing.T) {
	app, out := newTestApp(t, nil)
	require.NoError(t, app.Run([]string{"entropy", "-n", "8", "-op", "and"}))
	text := strings.ToUpper(out.String())
	assert.Contains(t, text, "MIN-ENTROPY")
	assert.Contains(t, text, "64.0000")
}

func TestEntropyRows(t *testing.T) {
	cases := map[string]float64{
		"and":      64 * randbytes.BitMinEntropy(0.25),
		"or":       64 * randbytes.BitMinEntropy(0.75),
		"xor":      64,
		"not":      64,
		"self-and": 64,
		"self-or":  64,
		"self-xor": 0,
	}
	for op, want := range cases {
		t.Run(op, func(t *testing.T) {
			rows, err := entropyRows(randbytes.SystemSource, 8, op)
			require.NoError(t, err)
			last := rows[len(rows)-1]
			assert.Equal(t, op, last.name)
			assert.Equal(t, 64, last.bits)
			assert.InDelta(t, want, last.min, 1e-9)
		})
	}

	_, err := entropyRows(randbytes.SystemSource, 8, "nand")
	require.Error(t, err)
	_, err = entropyRows(randbytes.SystemSource, -1, "and")
	require.ErrorIs(t, err, randbytes.ErrInvalidLength)
}

func TestUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.ErrorIs(t, app.Run([]string{"frobnicate"}), errUsage)
	require.ErrorIs(t, app.Run(nil), errUsage)
}

func TestFailedCommandCountsError(t *testing.T) {
	app, _ := newTestApp(t, nil)
	require.Error(t, app.Run([]string{"frobnicate"}))
	require.Error(t, app.Run([]string{"encrypt"}))
	require.Error(t, app.Run([]string{"encrypt"}))
	require.NoError(t, app.Run([]string{"entropy", "-n", "1"}))

	m := app.Metrics.GetMetric(MetricErrorCount, map[string]string{"type": "frobnicate"})
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Value)
	m = app.Metrics.GetMetric(MetricErrorCount, map[string]string{"type": "encrypt"})
	require.NotNil(t, m)
	assert.Equal(t, 2.0, m.Value)
	assert.Nil(t, app.Metrics.GetMetric(MetricErrorCount, map[string]string{"type": "entropy"}))
}
