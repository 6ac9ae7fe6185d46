package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/miirko99/translation-api/internal/upstream"
	"github.com/miirko99/translation-api/internal/whitelist"
)

const (
	// MaxContentWords caps the number of whitespace separated tokens.
	MaxContentWords = 30

	defaultRefreshTimeout = 30 * time.Second
)

// Request is one translation request as received and as forwarded upstream.
type Request struct {
	SourceLang string `json:"source_language"`
	TargetLang string `json:"target_language"`
	Domain     string `json:"domain"`
	Content    string `json:"content"`
}

// Translator forwards a JSON payload to the upstream translate endpoint.
type Translator interface {
	Translate(ctx context.Context, payload []byte) (string, error)
}

// Whitelist is the view of the whitelist store the gateway needs.
type Whitelist interface {
	Snapshot() *whitelist.Snapshot
	Refresh(ctx context.Context, trigger whitelist.Trigger) whitelist.RefreshResult
}

type Service struct {
	whitelist      Whitelist
	translator     Translator
	logger         zerolog.Logger
	refreshTimeout time.Duration
}

// NewService wires the gateway. refreshTimeout bounds the inline refresh that
// follows an upstream rejection.
func NewService(wl Whitelist, translator Translator, logger zerolog.Logger, refreshTimeout time.Duration) *Service {
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	return &Service{
		whitelist:      wl,
		translator:     translator,
		logger:         logger,
		refreshTimeout: refreshTimeout,
	}
}

// Handle validates req, forwards it upstream and returns the translated text.
func (s *Service) Handle(ctx context.Context, req Request) (string, error) {
	if s == nil || s.whitelist == nil || s.translator == nil {
		return "", fmt.Errorf("translation gateway is not initialized")
	}

	if err := s.Validate(req); err != nil {
		s.logger.Debug().
			Err(err).
			Str("source_language", req.SourceLang).
			Str("target_language", req.TargetLang).
			Str("domain", req.Domain).
			Msg("translation request rejected locally")
		return "", err
	}

	return s.forward(ctx, req)
}

// Validate checks req against one whitelist snapshot. Checks run in order and
// stop at the first failure.
func (s *Service) Validate(req Request) error {
	snap := s.whitelist.Snapshot()

	if !snap.HasLanguage(req.SourceLang) {
		return &UnsupportedLanguageError{Role: RoleSource, Value: req.SourceLang}
	}
	if !snap.HasLanguage(req.TargetLang) {
		return &UnsupportedLanguageError{Role: RoleTarget, Value: req.TargetLang}
	}
	if !snap.HasDomain(req.Domain) {
		return &UnsupportedDomainError{Value: req.Domain}
	}
	if countWords(req.Content) > MaxContentWords {
		return ErrContentTooLong
	}
	return nil
}

func (s *Service) forward(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	translated, err := s.translator.Translate(ctx, payload)
	if err == nil {
		return translated, nil
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		s.logger.Error().
			Err(err).
			Int("status", statusErr.StatusCode).
			Str("source_language", req.SourceLang).
			Str("target_language", req.TargetLang).
			Str("domain", req.Domain).
			Msg("upstream rejected translation; refreshing whitelist")
		s.refreshAfterRejection(ctx)
		return "", &UpstreamRejectedError{Message: statusErr.Message}
	}

	s.logger.Error().
		Err(err).
		Str("source_language", req.SourceLang).
		Str("target_language", req.TargetLang).
		Str("domain", req.Domain).
		Msg("upstream translation failed")
	return "", &unavailableError{cause: err}
}

// refreshAfterRejection runs synchronously but is detached from the caller's
// cancellation so a disconnecting client cannot abort the resync.
func (s *Service) refreshAfterRejection(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
	defer cancel()
	s.whitelist.Refresh(refreshCtx, whitelist.TriggerRejection)
}

func countWords(content string) int {
	return len(strings.Fields(content))
}
