// Package assistant answers resident questions and drafts announcements
// through a text generation model. It never reads or writes the store and
// never returns an error to its callers: every failure becomes one of the
// fixed Spanish replies.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"condo/internal/cache"
	applog "condo/internal/log"
	"condo/internal/metrics"
)

// Request is one generation call.
type Request struct {
	Prompt            string
	SystemInstruction string
	Temperature       float64
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

var errEmptyReply = errors.New("empty reply")

// Call kinds and outcomes for metrics.
const (
	KindAnswer = "answer"
	KindDraft  = "draft"

	outcomeOK          = "ok"
	outcomeCached      = "cached"
	outcomeError       = "error"
	outcomeUnavailable = "unavailable"
)

type Config struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second, CacheSize: 128, CacheTTL: time.Hour}
}

type Service struct {
	gen     Generator
	cfg     Config
	group   singleflight.Group
	answers *cache.LRUCache[string]
	metrics *metrics.Metrics
	logger  *applog.Logger
}

// New builds the service. A nil generator means no credential is
// configured and every call returns FallbackNoKey.
func New(gen Generator, cfg Config, m *metrics.Metrics, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	s := &Service{
		gen:     gen,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent(applog.ComponentAssistant),
	}
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = DefaultConfig().CacheTTL
		}
		s.answers = cache.NewLRUCache[string](cfg.CacheSize, ttl)
	}
	return s
}

// Available reports whether a model is configured.
func (s *Service) Available() bool { return s.gen != nil }

// Cache exposes the answer cache for periodic sweeping; nil when disabled.
func (s *Service) Cache() *cache.LRUCache[string] { return s.answers }

// AnswerQuestion replies to a resident question using the community rules.
// Identical questions share one in-flight call and recent answers are
// served from cache.
func (s *Service) AnswerQuestion(ctx context.Context, prompt string) string {
	if !s.Available() {
		s.metrics.RecordAssistantCall(KindAnswer, outcomeUnavailable)
		return FallbackNoKey
	}

	key := normalizeQuestion(prompt)
	if s.answers != nil {
		if text, ok := s.answers.Get(key); ok {
			s.metrics.RecordAssistantCall(KindAnswer, outcomeCached)
			return text
		}
	}

	text, err := s.generate(ctx, KindAnswer+"\x00"+key, Request{
		Prompt:            prompt,
		SystemInstruction: answerInstruction(),
		Temperature:       answerTemperature,
	})
	if err != nil {
		s.fail(ctx, KindAnswer, err)
		return FallbackAnswer
	}
	if s.answers != nil {
		s.answers.Set(key, text)
	}
	s.metrics.RecordAssistantCall(KindAnswer, outcomeOK)
	return text
}

// DraftAnnouncement writes an announcement about topic. The reply holds a
// title paragraph followed by the body; see ParseDraft.
func (s *Service) DraftAnnouncement(ctx context.Context, topic string) string {
	if !s.Available() {
		s.metrics.RecordAssistantCall(KindDraft, outcomeUnavailable)
		return FallbackNoKey
	}

	text, err := s.generate(ctx, KindDraft+"\x00"+strings.TrimSpace(topic), Request{
		Prompt:            draftPrompt(topic),
		SystemInstruction: draftInstruction(),
		Temperature:       draftTemperature,
	})
	if err != nil {
		s.fail(ctx, KindDraft, err)
		return FallbackDraft
	}
	s.metrics.RecordAssistantCall(KindDraft, outcomeOK)
	return text
}

// generate runs the call detached from the caller's cancellation so that
// one impatient caller does not fail the others sharing the flight; the
// timeout still bounds it.
func (s *Service) generate(ctx context.Context, key string, req Request) (string, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer cancel()
		text, err := s.gen.Generate(callCtx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", errEmptyReply
		}
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Service) fail(ctx context.Context, kind string, err error) {
	s.metrics.RecordAssistantCall(kind, outcomeError)
	s.logger.ErrorContext(ctx, "Assistant call failed", "kind", kind, applog.FieldError, err.Error())
}

func normalizeQuestion(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
