package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/miirko99/translation-api/internal/gateway"
	"github.com/miirko99/translation-api/internal/schema"
)

const upstreamUnavailableMessage = "Upstream translation service unavailable"

func (s *Server) handleValidatedTranslate(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body").SetInternal(err)
	}

	body, err := schema.DecodeTranslateRequest(raw)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	translated, err := s.translator.Handle(c.Request().Context(), gateway.Request{
		SourceLang: body.SourceLanguage,
		TargetLang: body.TargetLanguage,
		Domain:     body.Domain,
		Content:    body.Content,
	})
	switch {
	case err == nil:
		return c.String(http.StatusOK, translated)
	case gateway.IsClientError(err):
		return c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, upstreamUnavailableMessage).SetInternal(err)
	default:
		return err
	}
}

type whitelistStatus struct {
	Languages          int        `json:"languages"`
	Domains            int        `json:"domains"`
	LanguagesUpdatedAt *time.Time `json:"languages_updated_at,omitempty"`
	DomainsUpdatedAt   *time.Time `json:"domains_updated_at,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	snap := s.whitelist.Snapshot()
	return success(c, map[string]any{
		"service": "translategate",
		"time":    s.now(),
		"whitelist": whitelistStatus{
			Languages:          snap.LanguageCount(),
			Domains:            snap.DomainCount(),
			LanguagesUpdatedAt: optionalTime(snap.LanguagesUpdatedAt()),
			DomainsUpdatedAt:   optionalTime(snap.DomainsUpdatedAt()),
		},
	})
}

func (s *Server) handleWhitelist(c echo.Context) error {
	snap := s.whitelist.Snapshot()
	return success(c, map[string]any{
		"languages": snap.Languages(),
		"domains":   snap.Domains(),
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
