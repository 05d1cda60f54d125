package http

import (
	"net/http"

	"condo/internal/access"
	"condo/internal/core"
)

func (s *Server) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageSecurity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	visitors := access.VisibleVisitors(s.store.Snapshot(), id)
	access.SortNewestFirst(visitors, func(v core.Visitor) string { return v.EntryDate })
	ok(w, visitors)
}

// handleCreateVisitor registers a walk-in. Residents register visitors for
// their own property only.
func (s *Server) handleCreateVisitor(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanRegisterVisitors)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req visitorRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	propertyID, err := residentProperty(snap, id, req.PropertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, found := snap.Property(propertyID); !found {
		writeError(w, r, FieldErrors{"propertyId": "propiedad desconocida"})
		return
	}

	v := core.NewVisitor(sanitizeInput(req.Name), sanitizeInput(req.IDNumber), propertyID, s.store.Now())
	s.store.AddVisitor(r.Context(), v)
	created(w, "/api/visitors/"+v.ID, v)
}

// handleVisitorStatus moves a visitor inside or out. Only staff at the
// gate and administrators record movements.
func (s *Server) handleVisitorStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManagePackages); err != nil {
		writeError(w, r, err)
		return
	}
	var req visitorStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.store.SetVisitorStatus(r.Context(), r.PathValue("id"), core.VisitorStatus(req.Status), s.store.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, v)
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageSecurity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkgs := access.VisiblePackages(s.store.Snapshot(), id)
	access.SortNewestFirst(pkgs, func(p core.Package) string { return p.ReceivedDate })
	ok(w, pkgs)
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManagePackages); err != nil {
		writeError(w, r, err)
		return
	}
	var req packageRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, found := s.store.Snapshot().Property(req.PropertyID); !found {
		writeError(w, r, FieldErrors{"propertyId": "propiedad desconocida"})
		return
	}
	p := core.NewPackage(req.PropertyID, sanitizeInput(req.Carrier), s.store.Now())
	s.store.AddPackage(r.Context(), p)
	created(w, "/api/packages/"+p.ID, p)
}

func (s *Server) handleDeliverPackage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManagePackages); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.MarkPackageDelivered(r.Context(), r.PathValue("id"), s.store.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, p)
}
