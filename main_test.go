package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"randbytes/internal/randbytes"
	"randbytes/internal/scenario"
)

func TestRunScenarios(t *testing.T) {
	var out bytes.Buffer
	if err := runScenarios(&out, randbytes.SystemSource, scenario.All()); err != nil {
		t.Fatalf("runScenarios failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Decrypted message: this is interesting") {
		t.Errorf("missing ASCII round trip in output:\n%s", text)
	}
	if !strings.Contains(text, "Decrypted message: ☃") {
		t.Errorf("missing UTF-8 round trip in output:\n%s", text)
	}
	if !strings.Contains(text, "Bytes: 3") {
		t.Errorf("snowman should be 3 bytes:\n%s", text)
	}
}

func TestRunScenariosStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	scenarios := []scenario.Scenario{
		{Name: "fails", Run: func(randbytes.Source) (*scenario.Report, error) { return nil, boom }},
		{Name: "never", Run: func(randbytes.Source) (*scenario.Report, error) { ran = true; return &scenario.Report{}, nil }},
	}
	err := runScenarios(&bytes.Buffer{}, randbytes.SystemSource, scenarios)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Error("scenario after a failure should not run")
	}
}
