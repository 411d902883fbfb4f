package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/config"
	"jhs/backend/internal/handlers"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{
		Environment: "test",
		HTTP: config.HTTPConfig{
			Host:        "127.0.0.1",
			Port:        0,
			CORSOrigins: []string{"https://front.jhs.example"},
			FrontendURL: "https://front.jhs.example",
		},
		Uploads:   config.UploadsConfig{MaxBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{ContactLimit: 1, Prefix: "test"},
	}
	set := handlers.NewHandlerSet(zerolog.Nop(), cfg, handlers.Dependencies{})
	return NewHTTPServer(cfg, zerolog.Nop(), set).Handler()
}

func TestStatusBanner(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Backend is running", body["status"])
	assert.Equal(t, "https://front.jhs.example", body["frontend"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPreflightFromAllowedOrigin(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://front.jhs.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://front.jhs.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
