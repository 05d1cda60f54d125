// Package documents stores the files behind property documents and turns
// document references into download links.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type Driver string

const (
	DriverFS Driver = "fs"
	DriverS3 Driver = "s3"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrExists     = errors.New("document already exists")
	ErrInvalidKey = errors.New("invalid document key")
)

// Info describes a stored file.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"sizeBytes"`
	ContentType  string    `json:"contentType,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Blobs is a flat key/value file store.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Open(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	// URL returns a link clients can download key from. Drivers that sign
	// links honour ttl.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Driver() Driver
}

// CleanKey rejects empty, absolute and escaping keys and normalizes the rest.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}
