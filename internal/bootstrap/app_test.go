package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "outvoice", Env: "test", Port: "0"},
		HTTP: config.HTTPConfig{
			ShutdownTimeout: time.Second,
			MaxBodySize:     1 << 20,
			MaxUploadSize:   1 << 20,
			RateLimit:       2,
			RateWindow:      time.Minute,
		},
		Portal:    config.PortalConfig{JWTSecret: "bootstrap-test-secret", TokenTTL: time.Hour, Issuer: "outvoice-portal"},
		Storage:   config.StorageConfig{Type: "memory"},
		Telemetry: config.TelemetryConfig{ServiceName: "outvoice"},
		Seed:      config.SeedConfig{Enabled: true},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, app.Close(context.Background()))
	})
	return app
}

func get(app *App, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNew_ServesSeededState(t *testing.T) {
	app := newTestApp(t)

	w := get(app, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = get(app, "/api/v1/invoices")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []json.RawMessage `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data)
	assert.Equal(t, len(body.Data), body.Meta.Total)

	w = get(app, "/api/v1/reports/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(app, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "outvoice_http_requests_total")
}

func TestNew_RateLimitsPortalLogin(t *testing.T) {
	app := newTestApp(t)

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/portal/login", strings.NewReader(`{"client_id":"cli-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		app.Engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, login().Code)
	assert.Equal(t, http.StatusOK, login().Code)
	w := login()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestNew_WithoutSeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Seed.Enabled = false
	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = app.Close(context.Background()) }()

	assert.Equal(t, 0, app.State.Invoices.Len())
}

func TestNew_BadStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Type = "ftp"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNew_RedisRevocationUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Portal.RevocationStore = "redis"
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis")
}

func TestServe_StopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
