package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/miirko99/translation-api/internal/gateway"
	"github.com/miirko99/translation-api/internal/whitelist"
)

type fakeTranslator struct {
	calls []gateway.Request
	text  string
	err   error
}

func (f *fakeTranslator) Handle(_ context.Context, req gateway.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeWhitelist struct {
	snapshot *whitelist.Snapshot
}

func (f *fakeWhitelist) Snapshot() *whitelist.Snapshot {
	return f.snapshot
}

func newTestServer(translator *fakeTranslator) *Server {
	wl := &fakeWhitelist{snapshot: whitelist.NewSnapshot([]string{"fra", "eng"}, []string{"general"})}
	server := NewServer(translator, wl, zerolog.Nop(), Options{})
	server.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return server
}

func serve(server *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

const validBody = `{"source_language":"eng","target_language":"fra","domain":"general","content":"Hello"}`

func TestValidatedTranslateSuccessReturnsPlainText(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{text: "Bonjour"}
	rec := serve(newTestServer(translator), http.MethodPost, translatePath, validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "Bonjour" {
		t.Fatalf("unexpected body: got %q want Bonjour", rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if len(translator.calls) != 1 {
		t.Fatalf("unexpected gateway calls: got %d want 1", len(translator.calls))
	}
	want := gateway.Request{SourceLang: "eng", TargetLang: "fra", Domain: "general", Content: "Hello"}
	if translator.calls[0] != want {
		t.Fatalf("unexpected gateway request: got %+v want %+v", translator.calls[0], want)
	}
}

func TestValidatedTranslateClientErrorsReturnBadRequest(t *testing.T) {
	t.Parallel()

	cases := []error{
		&gateway.UnsupportedLanguageError{Role: gateway.RoleSource, Value: "deu"},
		&gateway.UnsupportedLanguageError{Role: gateway.RoleTarget, Value: "jpn"},
		&gateway.UnsupportedDomainError{Value: "medical"},
		gateway.ErrContentTooLong,
		&gateway.UpstreamRejectedError{Message: "domain disabled"},
	}

	for _, gatewayErr := range cases {
		gatewayErr := gatewayErr
		t.Run(gatewayErr.Error(), func(t *testing.T) {
			t.Parallel()

			rec := serve(newTestServer(&fakeTranslator{err: gatewayErr}), http.MethodPost, translatePath, validBody)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
			}
			if rec.Body.String() != gatewayErr.Error() {
				t.Fatalf("unexpected body: got %q want %q", rec.Body.String(), gatewayErr.Error())
			}
		})
	}
}

func TestValidatedTranslateUpstreamUnavailable(t *testing.T) {
	t.Parallel()

	gatewayErr := fmt.Errorf("dial tcp 10.0.0.7:443: connection refused: %w", gateway.ErrUpstreamUnavailable)
	rec := serve(newTestServer(&fakeTranslator{err: gatewayErr}), http.MethodPost, translatePath, validBody)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadGateway)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.7") {
		t.Fatalf("internal details leaked: %q", rec.Body.String())
	}
	if rec.Body.String() != upstreamUnavailableMessage {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestValidatedTranslateUnexpectedErrorIsInternal(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(&fakeTranslator{err: errors.New("boom")}), http.MethodPost, translatePath, validBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("internal error leaked: %q", rec.Body.String())
	}
}

func TestValidatedTranslateRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"not json":      `source=eng`,
		"missing field": `{"source_language":"eng","target_language":"fra","content":"Hello"}`,
		"wrong type":    `{"source_language":"eng","target_language":"fra","domain":"general","content":["Hello"]}`,
	}
	for name, body := range bodies {
		translator := &fakeTranslator{text: "unused"}
		rec := serve(newTestServer(translator), http.MethodPost, translatePath, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: unexpected status: got %d want %d", name, rec.Code, http.StatusBadRequest)
		}
		if !strings.HasPrefix(rec.Body.String(), "Invalid request body") {
			t.Fatalf("%s: unexpected body: %q", name, rec.Body.String())
		}
		if len(translator.calls) != 0 {
			t.Fatalf("%s: did not expect gateway calls", name)
		}
	}
}

func TestValidatedTranslateRequiresPost(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(&fakeTranslator{}), http.MethodGet, translatePath, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHealthReportsWhitelistSizes(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(&fakeTranslator{}), http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Service   string          `json:"service"`
			Whitelist whitelistStatus `json:"whitelist"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if payload.Status != "success" || payload.Data.Service != "translategate" {
		t.Fatalf("unexpected health payload: %+v", payload)
	}
	if payload.Data.Whitelist.Languages != 2 || payload.Data.Whitelist.Domains != 1 {
		t.Fatalf("unexpected whitelist sizes: %+v", payload.Data.Whitelist)
	}
	if payload.Data.Whitelist.LanguagesUpdatedAt != nil {
		t.Fatalf("expected no update time for a hand-built snapshot")
	}
}

func TestWhitelistListsSortedEntries(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(&fakeTranslator{}), http.MethodGet, "/api/v1/whitelist", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	var payload struct {
		Data struct {
			Languages []string `json:"languages"`
			Domains   []string `json:"domains"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode whitelist: %v", err)
	}
	if strings.Join(payload.Data.Languages, ",") != "eng,fra" {
		t.Fatalf("unexpected languages: %v", payload.Data.Languages)
	}
	if strings.Join(payload.Data.Domains, ",") != "general" {
		t.Fatalf("unexpected domains: %v", payload.Data.Domains)
	}
}

func TestUnknownAPIRouteUsesJSend(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(&fakeTranslator{}), http.MethodGet, "/api/v1/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
	var payload jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode jsend: %v", err)
	}
	if payload.Status != "fail" {
		t.Fatalf("unexpected jsend status: %q", payload.Status)
	}
}

func TestNewServerAppliesDefaults(t *testing.T) {
	t.Parallel()

	server := NewServer(nil, nil, zerolog.Nop(), Options{})
	if server.opts.Host != "0.0.0.0" || server.opts.Port != 8080 {
		t.Fatalf("unexpected defaults: %+v", server.opts)
	}
	if server.opts.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", server.opts.ShutdownTimeout)
	}
	if err := server.Start(context.Background()); err == nil {
		t.Fatalf("expected start to fail without dependencies")
	}
}
