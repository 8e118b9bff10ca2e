// main.go - Runs the demo scenarios once, in order, against the system CSPRNG.
//
// This is the quick check for the buffer algebra:
//   - two one-time pads (ASCII and a multi-byte UTF-8 message) must round trip
//     with full min-entropy on the key and on the ciphertext
//   - a buffer XORed with itself must have zero entropy
//   - two independent 8-byte buffers ANDed must keep between 24 and 28 bits
//
// Usage:
//
//	go run .
//
// See cmd/otpd for the configurable tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"randbytes/internal/randbytes"
	"randbytes/internal/scenario"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("=== Probabilistic bit buffer scenarios ===")

	if err := runScenarios(os.Stdout, randbytes.SystemSource, scenario.All()); err != nil {
		log.Fatal().Err(err).Msg("scenario failed")
	}
	log.Info().Msg("all scenarios passed")
}

// runScenarios stops at the first failing scenario.
func runScenarios(out io.Writer, src randbytes.Source, scenarios []scenario.Scenario) error {
	for _, s := range scenarios {
		rep, err := s.Run(src)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		log.Info().Str("scenario", s.Name).Float64("min_entropy", rep.MinEntropy).Msg(rep.Description)
		if rep.Ciphertext != nil {
			fmt.Fprintf(out, "Encrypted message: %x\n", rep.Ciphertext)
			fmt.Fprintf(out, "Bytes: %d\n", len(rep.Ciphertext))
			fmt.Fprintf(out, "Decrypted message: %s\n", rep.Plaintext)
		}
	}
	return nil
}
