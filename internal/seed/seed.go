// Package seed holds the demo community used when no saved state exists.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"condo/internal/core"
)

//go:embed seed.json
var defaultSeed []byte

// Default decodes the embedded dataset. Every call returns a fresh copy.
func Default() (core.Snapshot, error) {
	return Decode(defaultSeed)
}

// MustDefault panics if the embedded dataset does not decode, which can
// only happen when seed.json itself is broken.
func MustDefault() core.Snapshot {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}

// FromFile reads a seed dataset from disk, using the same layout as the
// persisted state. An empty path selects the embedded dataset.
func FromFile(path string) (core.Snapshot, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read seed file: %w", err)
	}
	return Decode(b)
}

func Decode(b []byte) (core.Snapshot, error) {
	var s core.Snapshot
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode seed: %w", err)
	}
	s.Normalize()
	if err := s.Check(); err != nil {
		return core.Snapshot{}, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}
