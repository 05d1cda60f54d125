package http

import (
	"net/http"

	"condo/internal/access"
	"condo/internal/core"
)

type sessionView struct {
	SignedIn   bool           `json:"signedIn"`
	Identity   *core.Identity `json:"identity,omitempty"`
	Landing    core.Page      `json:"landingPage,omitempty"`
	Navigation []core.Page    `json:"navigation"`
}

func newSessionView(id core.Identity, signedIn bool) sessionView {
	v := sessionView{SignedIn: signedIn, Navigation: []core.Page{}}
	if signedIn {
		v.Identity = &id
		v.Landing = core.LandingPage(id.Role)
		v.Navigation = access.Navigation(id.Role)
	}
	return v
}

func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	id, signedIn := s.sessions.Current()
	ok(w, newSessionView(id, signedIn))
}

// handleSignIn accepts a role label ("Administrador") or its english short
// name ("admin").
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := core.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, FieldErrors{"role": "rol desconocido"})
		return
	}
	id, _, err := s.sessions.SignIn(r.Context(), role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, newSessionView(id, true))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.sessions.SignOut(r.Context())
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, map[string][]core.Page{"pages": access.Navigation(id.Role)})
}
