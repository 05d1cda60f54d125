package http

import (
	"net/http"
	"strings"

	"condo/internal/access"
	"condo/internal/core"
)

// sanitizeInput removes control characters other than tab and newlines and
// trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// identity returns the signed-in identity or errSignedOut.
func (s *Server) identity() (core.Identity, error) {
	id, ok := s.sessions.Current()
	if !ok {
		return core.Identity{}, errSignedOut
	}
	return id, nil
}

// requireRole resolves the identity and checks it with allowed.
func (s *Server) requireRole(allowed func(core.Role) bool) (core.Identity, error) {
	id, err := s.identity()
	if err != nil {
		return core.Identity{}, err
	}
	if !allowed(id.Role) {
		return core.Identity{}, errForbidden
	}
	return id, nil
}

// requirePage allows the roles that may open page.
func (s *Server) requirePage(page core.Page) (core.Identity, error) {
	return s.requireRole(func(r core.Role) bool { return access.CanAccessPage(r, page) })
}

// residentProperty is the property a resident acts on. Other roles pass
// requested through unchanged.
func residentProperty(snap core.Snapshot, id core.Identity, requested string) (string, error) {
	if id.Role != core.RoleResident {
		return requested, nil
	}
	p, ok := access.ResolveProperty(snap, id)
	if !ok {
		return "", errForbidden
	}
	return p.ID, nil
}

// residentOwner resolves the owner record of a resident identity.
func residentOwner(snap core.Snapshot, id core.Identity) (core.Owner, error) {
	o, ok := access.ResolveOwner(snap, id)
	if !ok {
		return core.Owner{}, errForbidden
	}
	return o, nil
}

func created(w http.ResponseWriter, location string, body any) {
	NewJSONResponse().Location(location).Body(body).Write(w)
}

func ok(w http.ResponseWriter, body any) {
	NewJSONResponse().Body(body).Write(w)
}
