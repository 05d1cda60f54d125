package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"condo/internal/core"
	applog "condo/internal/log"
)

// KeyPrefix is where uploaded property documents are stored.
const KeyPrefix = "documents"

// Link is a property document resolved against the blob store.
type Link struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Key         string `json:"key,omitempty"`
	Size        int64  `json:"sizeBytes,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Available   bool   `json:"available"`
}

type Service struct {
	blobs  Blobs
	ttl    time.Duration
	logger *applog.Logger
}

func NewService(blobs Blobs, ttl time.Duration, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Service{blobs: blobs, ttl: ttl, logger: logger.WithComponent(applog.ComponentDocuments)}
}

func (s *Service) Blobs() Blobs { return s.blobs }

// Resolve turns a document reference into a download link. Absolute http
// URLs pass through untouched. A reference with no stored file yields a
// link that is not available rather than an error.
func (s *Service) Resolve(ctx context.Context, doc core.Document) (Link, error) {
	l := Link{Name: doc.Name, URL: doc.URL}
	if isExternal(doc.URL) {
		l.Available = true
		return l, nil
	}
	info, err := s.blobs.Head(ctx, doc.URL)
	switch {
	case errors.Is(err, ErrNotFound):
		l.URL = ""
		return l, nil
	case err != nil:
		return Link{}, err
	}
	u, err := s.blobs.URL(ctx, info.Key, s.ttl)
	if err != nil {
		return Link{}, err
	}
	l.URL = u
	l.Key = info.Key
	l.Size = info.Size
	l.ContentType = info.ContentType
	l.Available = true
	return l, nil
}

// PropertyLinks resolves every document of p. Failures are logged and the
// document is reported as unavailable.
func (s *Service) PropertyLinks(ctx context.Context, p core.Property) []Link {
	out := make([]Link, 0, len(p.Documents))
	for _, d := range p.Documents {
		l, err := s.Resolve(ctx, d)
		if err != nil {
			s.logger.WarnContext(ctx, "Document link failed",
				applog.FieldPropertyID, p.ID,
				applog.FieldRecordID, d.Name,
				applog.FieldError, err.Error())
			l = Link{Name: d.Name}
		}
		out = append(out, l)
	}
	return out
}

// Upload stores a file for a property and returns the document reference
// to attach to it.
func (s *Service) Upload(ctx context.Context, propertyID, name string, r io.Reader, contentType string) (core.Document, Info, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return core.Document{}, Info{}, fmt.Errorf("%w: document name %q", ErrInvalidKey, name)
	}
	key := path.Join(KeyPrefix, propertyID, name)
	info, err := s.blobs.Put(ctx, key, r, contentType)
	if err != nil {
		return core.Document{}, Info{}, err
	}
	s.logger.InfoContext(ctx, "Document stored",
		applog.FieldPropertyID, propertyID,
		applog.FieldRecordID, info.Key,
		applog.FieldBytes, info.Size)
	return core.Document{Name: name, URL: info.Key}, info, nil
}

func isExternal(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
