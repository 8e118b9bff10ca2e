package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerSinks(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "otpd.log")
	auditPath := filepath.Join(dir, "audit.log")

	var console bytes.Buffer
	l, err := NewLogger(&console, "info", logPath, auditPath)
	require.NoError(t, err)

	l.Debug("hidden %d", 1)
	l.Info("visible %d", 2)
	l.Warn("careful %d", 3)
	l.Audit("encrypt", map[string]interface{}{"bytes": 2})
	require.NoError(t, l.Close())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "visible 2")

	file, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(file), `"message":"visible 2"`)

	audit, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(audit), "careful 3")
	assert.Contains(t, string(audit), `"event":"encrypt"`)
	assert.NotContains(t, string(audit), "visible 2")
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var console bytes.Buffer
	l, err := NewLogger(&console, "chatty", "", "")
	require.NoError(t, err)
	l.Debug("nope")
	l.Info("yes")
	assert.NotContains(t, console.String(), "nope")
	assert.Contains(t, console.String(), "yes")
}
