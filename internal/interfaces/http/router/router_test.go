package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingHandler struct {
	prefix string
}

func (h pingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group(h.prefix)
	g.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	g.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, body)
	})
}

func testEngine(t *testing.T, metrics *middleware.HTTPMetrics) *gin.Engine {
	t.Helper()
	engine, err := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{
			MaxBodySize:      64,
			MaxUploadSize:    1024,
			CORSAllowOrigins: []string{"http://localhost:5173"},
		},
		ServiceName: "outvoice-test",
		Logger:      zap.NewNop(),
		Metrics:     metrics,
	})
	require.NoError(t, err)
	return engine
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := testEngine(t, nil)
	NewRouter(engine).
		Register(pingHandler{prefix: "/invoices"}, pingHandler{prefix: "/quotes"}).
		Setup()

	for _, path := range []string{"/api/v1/invoices/ping", "/api/v1/quotes/ping"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "pong")
	}
}

func TestNewEngine_Chain(t *testing.T) {
	engine := testEngine(t, nil)
	NewRouter(engine).Register(pingHandler{prefix: "/invoices"}).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewEngine_NoRoute(t *testing.T) {
	engine := testEngine(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-404")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errInfo["code"])
	assert.Equal(t, "req-404", errInfo["request_id"])
}

func TestNewEngine_BodyLimit(t *testing.T) {
	engine := testEngine(t, nil)
	NewRouter(engine).Register(pingHandler{prefix: "/invoices"}).Setup()

	payload := `{"notes":"` + strings.Repeat("x", 128) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/echo", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestNewEngine_Metrics(t *testing.T) {
	engine := testEngine(t, middleware.NewHTTPMetrics("outvoice"))
	NewRouter(engine).Register(pingHandler{prefix: "/invoices"}).Setup()

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/invoices/ping", nil))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/v1/invoices/ping"`)
}

func TestNewEngine_BadTrustedProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{TrustedProxies: []string{"not-an-ip"}},
	})
	assert.Error(t, err)
}
