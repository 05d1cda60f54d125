package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"condo/internal/access"
	"condo/internal/core"
	"condo/internal/documents"
	applog "condo/internal/log"
)

const maxUploadBytes = 10 << 20

// documentProperty returns the property whose documents id may handle.
// Residents are limited to their own.
func (s *Server) documentProperty(id core.Identity, propertyID string) (core.Property, error) {
	snap := s.store.Snapshot()
	switch id.Role {
	case core.RoleAdmin:
	case core.RoleResident:
		own, found := access.ResolveProperty(snap, id)
		if !found || own.ID != propertyID {
			return core.Property{}, errForbidden
		}
	default:
		return core.Property{}, errForbidden
	}
	p, found := snap.Property(propertyID)
	if !found {
		return core.Property{}, fmt.Errorf("property %s: %w", propertyID, core.ErrNotFound)
	}
	return p, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.documentProperty(id, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.documents == nil {
		links := make([]documents.Link, 0, len(p.Documents))
		for _, d := range p.Documents {
			links = append(links, documents.Link{Name: d.Name, URL: d.URL, Available: strings.HasPrefix(d.URL, "http")})
		}
		ok(w, links)
		return
	}
	ok(w, s.documents.PropertyLinks(r.Context(), p))
}

// handleUploadDocument takes a multipart form with a "file" part and an
// optional "name"; without one the uploaded file name is used.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageProperties); err != nil {
		writeError(w, r, err)
		return
	}
	if s.documents == nil {
		writeError(w, r, errUnavailable)
		return
	}
	propertyID := r.PathValue("id")
	if _, found := s.store.Snapshot().Property(propertyID); !found {
		writeError(w, r, fmt.Errorf("property %s: %w", propertyID, core.ErrNotFound))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, FieldErrors{"file": "archivo requerido"})
		return
	}
	defer func() { _ = file.Close() }()

	name := sanitizeInput(r.FormValue("name"))
	if name == "" {
		name = path.Base(header.Filename)
	}
	contentType := header.Header.Get("Content-Type")

	doc, info, err := s.documents.Upload(r.Context(), propertyID, name, file, contentType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.store.AttachDocument(r.Context(), propertyID, doc); err != nil {
		if _, derr := s.documents.Blobs().Delete(r.Context(), info.Key); derr != nil {
			applog.FromContext(r.Context()).Warn("Orphaned document left in storage",
				applog.FieldRecordID, info.Key,
				applog.FieldError, derr.Error())
		}
		writeError(w, r, err)
		return
	}

	link, err := s.documents.Resolve(r.Context(), doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "/api/properties/"+propertyID+"/documents", link)
}

// handleServeFile streams files for drivers that do not sign their own
// links. Only files referenced by a property are served, to the roles that
// may list that property's documents.
func (s *Server) handleServeFile(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.documents == nil || s.documents.Blobs().Driver() != documents.DriverFS {
		writeError(w, r, documents.ErrNotFound)
		return
	}
	key, err := documents.CleanKey(r.PathValue("key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	owner, found := propertyReferencing(s.store.Snapshot(), key)
	if !found {
		writeError(w, r, documents.ErrNotFound)
		return
	}
	if _, err := s.documentProperty(id, owner.ID); err != nil {
		writeError(w, r, err)
		return
	}

	info, body, err := s.documents.Blobs().Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() { _ = body.Close() }()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", path.Base(key)))
	if _, err := io.Copy(w, body); err != nil && !errors.Is(err, r.Context().Err()) {
		applog.FromContext(r.Context()).Warn("File stream interrupted", applog.FieldError, err.Error())
	}
}

func propertyReferencing(snap core.Snapshot, key string) (core.Property, bool) {
	for _, p := range snap.Properties {
		for _, d := range p.Documents {
			if d.URL == key {
				return p, true
			}
		}
	}
	return core.Property{}, false
}
