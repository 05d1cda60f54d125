package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"condo/internal/assistant"
	"condo/internal/core"
	"condo/internal/documents"
	applog "condo/internal/log"
	"condo/internal/reports"
	"condo/internal/session"
)

// JSONResponseBuilder is a fluent helper for JSON replies.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{statusCode: http.StatusOK, headers: map[string]string{}}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Location sets the Location header and switches to 201 Created.
func (b *JSONResponseBuilder) Location(url string) *JSONResponseBuilder {
	b.headers["Location"] = url
	b.statusCode = http.StatusCreated
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ErrorResponse builds the JSON error reply.
func ErrorResponse(code int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(code).Body(errorBody{Error: message})
}

var (
	errSignedOut = errors.New("no active session")
	errForbidden = errors.New("role not allowed")
)

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		NewJSONResponse().Status(http.StatusUnprocessableEntity).
			Body(errorBody{Error: "datos inválidos", Fields: fields}).Write(w)
	case errors.Is(err, errBadBody):
		ErrorResponse(http.StatusBadRequest, err.Error()).Write(w)
	case errors.Is(err, errUnavailable):
		ErrorResponse(http.StatusServiceUnavailable, err.Error()).Write(w)
	case errors.Is(err, errSignedOut):
		ErrorResponse(http.StatusUnauthorized, "inicia sesión para continuar").Write(w)
	case errors.Is(err, errForbidden):
		ErrorResponse(http.StatusForbidden, "acceso no permitido para este rol").Write(w)
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrPollNotFound),
		errors.Is(err, core.ErrOptionNotFound), errors.Is(err, documents.ErrNotFound):
		ErrorResponse(http.StatusNotFound, err.Error()).Write(w)
	case errors.Is(err, core.ErrAlreadyVoted), errors.Is(err, core.ErrPollClosed),
		errors.Is(err, core.ErrInvalidTransition), errors.Is(err, core.ErrDuplicate),
		errors.Is(err, documents.ErrExists):
		ErrorResponse(http.StatusConflict, err.Error()).Write(w)
	case errors.Is(err, core.ErrUnknownRole), errors.Is(err, session.ErrNoIdentityForRole),
		errors.Is(err, reports.ErrUnknownKind), errors.Is(err, documents.ErrInvalidKey),
		errors.Is(err, core.ErrInvalidAmount):
		ErrorResponse(http.StatusUnprocessableEntity, err.Error()).Write(w)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path, applog.FieldError, err.Error())
		ErrorResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).Write(w)
	}
}

// assistantReply is the body of both assistant endpoints. Fallback is set
// when the text is one of the fixed replies used without a model.
type assistantReply struct {
	Text     string           `json:"text"`
	Draft    *assistant.Draft `json:"draft,omitempty"`
	Fallback bool             `json:"fallback"`
}
