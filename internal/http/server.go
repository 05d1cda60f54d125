// Package http exposes the community service as a JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"condo/internal/assistant"
	"condo/internal/documents"
	applog "condo/internal/log"
	"condo/internal/metrics"
	"condo/internal/middleware/ratelimit"
	"condo/internal/middleware/security"
	"condo/internal/middleware/trace"
	"condo/internal/reports"
	"condo/internal/session"
	"condo/internal/store"
)

// FilesPrefix is where the fs documents driver's files are served.
const FilesPrefix = "/api/files"

// Deps are the services behind the API. Reports and Documents may be nil;
// their endpoints then answer 503.
type Deps struct {
	Store     *store.Store
	Sessions  *session.Manager
	Assistant *assistant.Service
	Reports   *reports.Exporter
	Documents *documents.Service
	Metrics   *metrics.Metrics
	Logger    *applog.Logger
	// Ready reports whether the service can take traffic; nil means always.
	Ready func(ctx context.Context) error
}

type Config struct {
	RequestsPerMinute int
	TrustedProxies    []string
}

type Server struct {
	http.Server

	store     *store.Store
	sessions  *session.Manager
	assistant *assistant.Service
	exporter  *reports.Exporter
	documents *documents.Service
	metrics   *metrics.Metrics
	logger    *applog.Logger
	ready     func(ctx context.Context) error

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, cfg Config) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	asst := deps.Assistant
	if asst == nil {
		asst = assistant.New(nil, assistant.DefaultConfig(), m, logger)
	}

	s := &Server{
		store:     deps.Store,
		sessions:  deps.Sessions,
		assistant: asst,
		exporter:  deps.Reports,
		documents: deps.Documents,
		metrics:   m,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		ready:     deps.Ready,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
	}
	s.detector = security.NewDetector(func(r *http.Request) {
		m.RecordSuspicious()
		s.logger.WarnContext(r.Context(), "Suspicious request",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, s.detector.ExtractClientIP(r))
	})
	for _, cidr := range cfg.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			s.logger.Warn("Ignoring trusted proxy", applog.FieldError, err.Error())
		}
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("POST /api/session", s.handleSignIn)
	mux.HandleFunc("DELETE /api/session", s.handleSignOut)
	mux.HandleFunc("GET /api/navigation", s.handleNavigation)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/finance/summary", s.handleFinanceSummary)
	mux.HandleFunc("GET /api/reports/{kind}", s.handleReport)
	mux.HandleFunc("POST /api/reports/export", s.handleExportReports)

	mux.HandleFunc("GET /api/properties", s.handleListProperties)
	mux.HandleFunc("POST /api/properties", s.handleCreateProperty)
	mux.HandleFunc("GET /api/owners", s.handleListOwners)
	mux.HandleFunc("POST /api/owners", s.handleCreateOwner)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/maintenance-requests", s.handleListMaintenance)
	mux.HandleFunc("POST /api/maintenance-requests", s.handleCreateMaintenance)
	mux.HandleFunc("GET /api/amenity-bookings", s.handleListBookings)
	mux.HandleFunc("POST /api/amenity-bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /api/marketplace-items", s.handleListMarketplace)
	mux.HandleFunc("POST /api/marketplace-items", s.handleCreateMarketplaceItem)
	mux.HandleFunc("GET /api/providers", s.handleListProviders)
	mux.HandleFunc("POST /api/providers", s.handleCreateProvider)
	mux.HandleFunc("GET /api/local-businesses", s.handleListBusinesses)
	mux.HandleFunc("POST /api/local-businesses", s.handleCreateBusiness)
	mux.HandleFunc("GET /api/announcements", s.handleListAnnouncements)
	mux.HandleFunc("POST /api/announcements", s.handleCreateAnnouncement)

	mux.HandleFunc("GET /api/visitors", s.handleListVisitors)
	mux.HandleFunc("POST /api/visitors", s.handleCreateVisitor)
	mux.HandleFunc("POST /api/visitors/{id}/status", s.handleVisitorStatus)
	mux.HandleFunc("GET /api/packages", s.handleListPackages)
	mux.HandleFunc("POST /api/packages", s.handleCreatePackage)
	mux.HandleFunc("POST /api/packages/{id}/delivery", s.handleDeliverPackage)

	mux.HandleFunc("GET /api/polls", s.handleListPolls)
	mux.HandleFunc("POST /api/polls", s.handleCreatePoll)
	mux.HandleFunc("POST /api/polls/{id}/votes", s.handleVote)

	mux.HandleFunc("POST /api/assistant/answers", s.handleAnswer)
	mux.HandleFunc("POST /api/assistant/drafts", s.handleDraft)

	mux.HandleFunc("GET /api/properties/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /api/properties/{id}/documents", s.handleUploadDocument)
	mux.HandleFunc("GET "+FilesPrefix+"/{key...}", s.handleServeFile)
}

// middleware wraps mux, outermost first: security headers, tracing,
// request logger, suspicious request detection and, for writes only, the
// rate limiter.
func (s *Server) middleware(mux http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.metrics.RecordRateLimited()
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, s.detector.ExtractClientIP(r),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "demasiadas solicitudes, intenta más tarde").Write(w)
	})(mux)

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			mux.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
	h = s.detector.Middleware(h)
	h = applog.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(h)
	h = applog.Middleware(s.logger)(h)
	h = trace.NewMiddleware(s.detector.ExtractClientIP, s.logger, s.metrics).Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return h
}

// Shutdown stops the rate limiter sweep and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

var errUnavailable = errors.New("feature not configured")
