// Package router assembles the gin engine: the global middleware chain, the
// probe endpoints and the versioned API group the handlers mount on.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/interfaces/http/dto"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by every handler
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// EngineConfig holds what the global middleware chain needs
type EngineConfig struct {
	HTTP        config.HTTPConfig
	ServiceName string
	// Tracing turns on otelgin spans; TracerProvider defaults to the global one
	Tracing        bool
	TracerProvider trace.TracerProvider
	Logger         *zap.Logger
	// Metrics is optional; when set /metrics is served
	Metrics *middleware.HTTPMetrics
}

// NewEngine builds a gin engine with the global middleware chain.
// Order: recovery, request id, tracing, span annotation, access log,
// security headers, CORS, body limits, metrics.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := logger.OrNop(cfg.Logger)

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.Tracing,
			Provider:    cfg.TracerProvider,
		}),
		middleware.SpanAnnotator(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cors),
		middleware.UploadAwareBodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize),
	)
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
		engine.GET("/metrics", cfg.Metrics.Handler())
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})
	engine.HandleMethodNotAllowed = true

	return engine, nil
}

// Router mounts handlers under the versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues handlers for Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every registered handler on /api/{version}
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}
