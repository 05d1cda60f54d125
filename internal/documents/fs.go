package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const metaSuffix = ".meta"

// FSStore keeps files under a root directory with a JSON sidecar per file.
// Links point at baseURL, which the HTTP server serves from Open.
type FSStore struct {
	root    string
	baseURL string
}

var _ Blobs = (*FSStore)(nil)

type fsMeta struct {
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewFSStore(root, baseURL string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("documents directory required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create documents directory: %w", err)
	}
	return &FSStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *FSStore) Driver() Driver { return DriverFS }

func (s *FSStore) paths(key string) (string, string, string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", "", "", err
	}
	data := filepath.Join(s.root, filepath.FromSlash(k))
	return k, data, data + metaSuffix, nil
}

func (s *FSStore) Put(_ context.Context, key string, r io.Reader, contentType string) (Info, error) {
	k, data, meta, err := s.paths(key)
	if err != nil {
		return Info{}, err
	}
	if strings.HasSuffix(k, metaSuffix) {
		return Info{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if _, err := os.Stat(data); err == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, k)
	}
	if err := os.MkdirAll(filepath.Dir(data), 0o755); err != nil {
		return Info{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(data), ".tmp-*")
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return Info{}, fmt.Errorf("write %s: %w", k, err)
	}
	if err := tmp.Close(); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), data); err != nil {
		return Info{}, err
	}

	m := fsMeta{ContentType: contentType, Size: size, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(m)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(meta, b, 0o644); err != nil {
		return Info{}, err
	}
	return m.info(k), nil
}

func (s *FSStore) Open(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	_, data, _, _ := s.paths(key)
	f, err := os.Open(data)
	if err != nil {
		return Info{}, nil, notFound(info.Key, err)
	}
	return info, f, nil
}

func (s *FSStore) Head(_ context.Context, key string) (Info, error) {
	k, _, meta, err := s.paths(key)
	if err != nil {
		return Info{}, err
	}
	m, err := readFSMeta(meta)
	if err != nil {
		return Info{}, notFound(k, err)
	}
	return m.info(k), nil
}

func (s *FSStore) Delete(_ context.Context, key string) (bool, error) {
	_, data, meta, err := s.paths(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	_ = os.Remove(meta)
	return true, nil
}

func (s *FSStore) List(_ context.Context, prefix string) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(p, metaSuffix))
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		m, err := readFSMeta(p)
		if err != nil {
			return err
		}
		out = append(out, m.info(key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// URL ignores ttl; files are served by the application itself.
func (s *FSStore) URL(ctx context.Context, key string, _ time.Duration) (string, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + (&url.URL{Path: info.Key}).EscapedPath(), nil
}

func (m fsMeta) info(key string) Info {
	return Info{Key: key, Size: m.Size, ContentType: m.ContentType, LastModified: m.CreatedAt}
}

func readFSMeta(p string) (fsMeta, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return fsMeta{}, err
	}
	var m fsMeta
	if err := json.Unmarshal(b, &m); err != nil {
		return fsMeta{}, fmt.Errorf("decode %s: %w", filepath.Base(p), err)
	}
	return m, nil
}

func notFound(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}
