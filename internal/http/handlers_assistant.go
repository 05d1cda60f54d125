package http

import (
	"net/http"

	"condo/internal/access"
	"condo/internal/assistant"
)

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if _, err := s.identity(); err != nil {
		writeError(w, r, err)
		return
	}
	var req questionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text := s.assistant.AnswerQuestion(r.Context(), sanitizeInput(req.Prompt))
	ok(w, assistantReply{Text: text, Fallback: assistant.IsFallback(text)})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanPublishAnnouncements); err != nil {
		writeError(w, r, err)
		return
	}
	var req draftRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text := s.assistant.DraftAnnouncement(r.Context(), sanitizeInput(req.Topic))
	reply := assistantReply{Text: text, Fallback: assistant.IsFallback(text)}
	if !reply.Fallback {
		d := assistant.ParseDraft(text)
		reply.Draft = &d
	}
	ok(w, reply)
}
