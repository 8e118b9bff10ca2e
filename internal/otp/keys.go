package otp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
)

// KeyPaths returns the proving and verifying key paths for nbBytes-byte messages under dir.
func KeyPaths(dir string, nbBytes int) (pkPath, vkPath string) {
	return filepath.Join(dir, fmt.Sprintf("otp_%d_pk.bin", nbBytes)),
		filepath.Join(dir, fmt.Sprintf("otp_%d_vk.bin", nbBytes))
}

// SetupOrLoadKeys returns the cached Groth16 keys for ccs, running setup and
// caching the result when either file is missing.
func SetupOrLoadKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, vk := groth16.NewProvingKey(ecc.BW6_761), groth16.NewVerifyingKey(ecc.BW6_761)
	err := errors.Join(readFrom(pkPath, pk), readFrom(vkPath, vk))
	if err == nil {
		return pk, vk, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading cached keys: %w", err)
	}

	pk, vk, err = groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(pkPath), 0755); err != nil {
		return nil, nil, err
	}
	if err := errors.Join(writeTo(pkPath, pk), writeTo(vkPath, vk)); err != nil {
		return nil, nil, fmt.Errorf("caching keys: %w", err)
	}
	return pk, vk, nil
}

// LoadVerifyingKey reads a verifying key cached by SetupOrLoadKeys.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BW6_761)
	if err := readFrom(path, vk); err != nil {
		return nil, err
	}
	return vk, nil
}

func writeTo(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := v.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func readFrom(path string, v io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := v.ReadFrom(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
