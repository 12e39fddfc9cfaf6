package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcos-backend/internal/shared/config"
)

func newTestRouter() http.Handler {
	return NewRouter(config.Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ClassifierURL:   "http://localhost:5001",
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string `json:"status"`
		Service   string `json:"service"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "PCOD/PCOS Backend", body.Service)
	assert.NotEmpty(t, body.Timestamp)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

// Without credentials the speech routes must fail fast with a configuration
// message, never with a panic or an attempted network call.
func TestSTTWithoutCredentialFailsFast(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/stt", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Deepgram API not configured")
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":7777", Addr(":7777"))
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
