package storage

import (
	"encoding/json"
	"fmt"

	"condo/internal/core"
)

// Encode normalizes a copy of s and marshals it.
func Encode(s core.Snapshot) ([]byte, error) {
	s = s.Clone()
	s.SchemaVersion = core.SchemaVersion
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a stored payload and rejects foreign schema versions.
func Decode(b []byte) (core.Snapshot, error) {
	var s core.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Check(); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: version %d: %w", s.SchemaVersion, err)
	}
	s.Normalize()
	return s, nil
}
