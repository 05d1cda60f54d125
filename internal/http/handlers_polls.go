package http

import (
	"net/http"

	"condo/internal/access"
	"condo/internal/core"
)

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PagePolls)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.VisiblePolls(s.store.Snapshot(), id, s.store.Now()))
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanCreatePolls); err != nil {
		writeError(w, r, err)
		return
	}
	var req pollRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	options := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, sanitizeInput(o))
	}
	p := core.NewPoll(sanitizeInput(req.Title), sanitizeInput(req.Description), req.ClosingDate, options, s.store.Now())
	s.store.AddPoll(r.Context(), p)
	created(w, "/api/polls/"+p.ID, p)
}

// handleVote casts the ballot of the signed-in resident's owner record.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanVote)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req voteRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	owner, err := residentOwner(s.store.Snapshot(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.Vote(r.Context(), r.PathValue("id"), req.OptionID, owner.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, p)
}
