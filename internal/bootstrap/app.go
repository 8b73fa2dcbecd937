// Package bootstrap wires the Outvoice process: telemetry, the in-memory state,
// the application services and the HTTP engine. Both binaries build on it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/application/assistant"
	appbilling "github.com/outvoice/backend/internal/application/billing"
	appcompany "github.com/outvoice/backend/internal/application/company"
	appdocument "github.com/outvoice/backend/internal/application/document"
	appfinance "github.com/outvoice/backend/internal/application/finance"
	appinventory "github.com/outvoice/backend/internal/application/inventory"
	appoperations "github.com/outvoice/backend/internal/application/operations"
	apppartner "github.com/outvoice/backend/internal/application/partner"
	appportal "github.com/outvoice/backend/internal/application/portal"
	appreport "github.com/outvoice/backend/internal/application/report"
	apptrade "github.com/outvoice/backend/internal/application/trade"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/ai"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/event"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/payment"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/outvoice/backend/internal/infrastructure/seed"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"github.com/outvoice/backend/internal/interfaces/http/handler"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"github.com/outvoice/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is reported by /health and the CLI
const Version = telemetry.ServiceVersion

// Services are the application services over one state
type Services struct {
	Profile        *appcompany.ProfileService
	Clients        *apppartner.ClientService
	Invoices       *appbilling.InvoiceService
	Quotes         *appbilling.QuoteService
	Products       *appinventory.ProductService
	PurchaseOrders *apptrade.PurchaseOrderService
	TimeEntries    *appoperations.TimeEntryService
	Staff          *appoperations.StaffService
	Tasks          *appoperations.TaskService
	Appointments   *appoperations.AppointmentService
	Expenses       *appfinance.ExpenseService
	Files          *appdocument.FileService
	Forms          *appdocument.FormService
	Reports        *appreport.ReportService
	Assistant      *assistant.Service
	Portal         *appportal.Service
}

// App is a fully wired process
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	State    *memory.State
	Services *Services
	Engine   *gin.Engine

	bus      *event.InMemoryEventBus
	limiter  *middleware.RateLimiter
	exporter *export.Exporter
	closers  []namedCloser
	meters   *telemetry.MeterProvider
	tracers  *telemetry.TracerProvider
	logs     *telemetry.LoggerProvider
}

// New builds the application. The returned App owns its telemetry providers,
// event bus and PDF renderer; Close releases them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)
	app := &App{Config: cfg}

	var err error
	if app.meters, err = telemetry.NewMeterProvider(ctx, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if app.tracers, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if app.logs, err = telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("failed to initialize log export: %w", err)
	}
	log = app.logs.Bridge(log, zapcore.InfoLevel)
	app.Logger = log

	app.State = memory.NewState()
	if cfg.Seed.Enabled {
		loader := seed.NewLoader(app.State, log, valueobject.DateOf(time.Now()))
		if err := loader.LoadDefault(ctx); err != nil {
			return nil, fmt.Errorf("failed to load seed data: %w", err)
		}
	}

	objects, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	metrics, err := telemetry.NewBusinessMetrics(app.meters.Meter("outvoice"), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	app.bus = event.NewInMemoryEventBus(log)
	app.bus.Subscribe(event.NewActivityLogger(log))
	app.bus.Subscribe(metrics)
	if err := app.bus.Start(ctx); err != nil {
		return nil, err
	}

	engine, err := export.NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to load export templates: %w", err)
	}
	var pdf export.PDFRenderer
	if cfg.Export.PDFEnabled {
		pdf = export.NewChromedpRenderer(export.ChromedpConfig{
			Timeout:   cfg.Export.ChromeTimeout,
			RemoteURL: cfg.Export.ChromeURL,
			NoSandbox: true,
			Logger:    log,
		})
	}
	app.exporter = export.NewExporter(engine, pdf)

	generator, err := newGenerator(cfg.AI, log)
	if err != nil {
		return nil, err
	}

	sessions, err := auth.NewJWTService(cfg.Portal)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize portal sessions: %w", err)
	}
	revoked, err := app.newRevocationStore(ctx)
	if err != nil {
		return nil, err
	}

	app.Services = newServices(app.State, objects, generator, sessions, revoked)
	svc := app.Services
	svc.Invoices.SetPaymentInitiator(payment.NewDefaultRegistry(cfg.Payment))
	svc.Invoices.SetPrinter(app.exporter)
	svc.Reports.SetExporter(app.exporter)
	svc.Expenses.SetReceiptReader(svc.Assistant)
	svc.Tasks.SetScheduler(svc.Assistant)
	svc.Assistant.SetMetrics(metrics)
	svc.Clients.SetEventPublisher(app.bus)
	svc.Invoices.SetEventPublisher(app.bus)
	svc.Quotes.SetEventPublisher(app.bus)
	svc.PurchaseOrders.SetEventPublisher(app.bus)
	svc.Files.SetEventPublisher(app.bus)
	svc.Files.SetLinkTTL(appdocument.DefaultLinkTTL)

	app.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
	if app.Engine, err = app.newEngine(sessions, revoked); err != nil {
		app.limiter.Stop()
		return nil, err
	}

	log.Info("Application wired",
		zap.Bool("seeded", cfg.Seed.Enabled),
		zap.String("storage", cfg.Storage.Type),
		zap.Bool("ai", generator != nil),
		zap.Bool("pdf", cfg.Export.PDFEnabled),
		zap.Bool("telemetry", cfg.Telemetry.Enabled))
	return app, nil
}

func newGenerator(cfg config.AIConfig, log *zap.Logger) (ai.TextGenerator, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	generator, err := ai.NewOpenAIGenerator(cfg, log)
	if errors.Is(err, ai.ErrNotConfigured) {
		log.Warn("AI is enabled but no API key is set; AI features are disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI generator: %w", err)
	}
	return generator, nil
}

func newServices(
	state *memory.State,
	objects storage.ObjectStorage,
	generator ai.TextGenerator,
	sessions *auth.JWTService,
	revoked auth.TokenBlacklist,
) *Services {
	s := &Services{
		Profile:        appcompany.NewProfileService(state.Profile),
		Clients:        apppartner.NewClientService(state.Clients),
		Invoices:       appbilling.NewInvoiceService(state.Invoices, state.Clients, state.Profile),
		Quotes:         appbilling.NewQuoteService(state.Quotes, state.Clients, state.Profile),
		Products:       appinventory.NewProductService(state.Products),
		PurchaseOrders: apptrade.NewPurchaseOrderService(state.PurchaseOrders, state.Invoices, state.Products),
		TimeEntries:    appoperations.NewTimeEntryService(state.TimeEntries, state.Clients, state.Profile),
		Staff:          appoperations.NewStaffService(state.Staff),
		Tasks:          appoperations.NewTaskService(state.Tasks, state.Staff, state.Invoices),
		Appointments:   appoperations.NewAppointmentService(state.Appointments, state.Clients),
		Expenses:       appfinance.NewExpenseService(state.Expenses, state.Clients, objects),
		Files:          appdocument.NewFileService(state.Files, state.Clients, objects),
		Forms:          appdocument.NewFormService(state.Forms, state.Submissions),
		Reports: appreport.NewReportService(
			state.Invoices, state.Quotes, state.Clients, state.Products, state.Tasks, state.Profile),
		Assistant: assistant.NewService(
			generator, state.Invoices, state.Quotes, state.Clients, state.Products, state.Profile),
	}
	s.Portal = appportal.NewService(s.Clients, s.Invoices, s.Quotes, s.Files, s.Appointments, sessions, revoked)
	return s
}

func (a *App) newEngine(sessions *auth.JWTService, revoked auth.TokenBlacklist) (*gin.Engine, error) {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:        a.Config.HTTP,
		ServiceName: a.Config.Telemetry.ServiceName,
		Tracing:     a.tracers.IsEnabled(),
		Logger:      a.Logger,
		Metrics:     middleware.NewHTTPMetrics("outvoice"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP engine: %w", err)
	}

	system := handler.NewSystemHandler(a.Config.App.Name, Version)
	engine.GET("/health", system.Health)

	svc := a.Services
	limit := middleware.RateLimit(a.limiter)
	router.NewRouter(engine).
		Register(
			handler.NewSettingsHandler(svc.Profile),
			handler.NewClientHandler(svc.Clients, svc.Assistant),
			handler.NewInvoiceHandler(svc.Invoices, svc.PurchaseOrders),
			handler.NewQuoteHandler(svc.Quotes),
			handler.NewProductHandler(svc.Products),
			handler.NewPurchaseOrderHandler(svc.PurchaseOrders),
			handler.NewTimeEntryHandler(svc.TimeEntries),
			handler.NewExpenseHandler(svc.Expenses),
			handler.NewFileHandler(svc.Files),
			handler.NewTaskHandler(svc.Tasks),
			handler.NewStaffHandler(svc.Staff),
			handler.NewAppointmentHandler(svc.Appointments),
			handler.NewFormHandler(svc.Forms),
			handler.NewReportHandler(svc.Reports),
			handler.NewAssistantHandler(svc.Assistant, limit),
			handler.NewPortalHandler(svc.Portal, middleware.PortalAuth(sessions, revoked), limit),
		).
		Setup()
	return engine, nil
}

// Server returns an http.Server for the engine with the configured limits
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:           ":" + a.Config.App.Port,
		Handler:        a.Engine,
		ReadTimeout:    a.Config.HTTP.ReadTimeout,
		WriteTimeout:   a.Config.HTTP.WriteTimeout,
		IdleTimeout:    a.Config.HTTP.IdleTimeout,
		MaxHeaderBytes: a.Config.HTTP.MaxHeaderBytes,
	}
}

// Serve listens until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (a *App) Serve(ctx context.Context) error {
	srv := a.Server()
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.Logger.Info("Server exited gracefully")
	return nil
}

// Close stops the event bus and flushes telemetry. Errors are logged and the
// first one is returned.
func (a *App) Close(ctx context.Context) error {
	var first error
	record := func(what string, err error) {
		if err == nil {
			return
		}
		a.Logger.Error("Error during shutdown", zap.String("component", what), zap.Error(err))
		if first == nil {
			first = err
		}
	}

	a.limiter.Stop()
	record("event bus", a.bus.Stop(ctx))
	record("exporter", a.exporter.Close())
	for _, c := range a.closers {
		record(c.name, c.close())
	}
	record("meter provider", a.meters.Shutdown(ctx))
	record("tracer provider", a.tracers.Shutdown(ctx))
	record("logger provider", a.logs.Shutdown(ctx))
	return first
}

type namedCloser struct {
	name  string
	close func() error
}

// newRevocationStore picks where logged-out portal token ids are kept
func (a *App) newRevocationStore(ctx context.Context) (auth.TokenBlacklist, error) {
	if a.Config.Portal.RevocationStore != "redis" {
		return auth.NewInMemoryTokenBlacklist(), nil
	}
	r := a.Config.Redis
	store, err := auth.NewRedisTokenBlacklist(ctx, auth.RedisTokenBlacklistConfig{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, namedCloser{name: "revocation store", close: store.Close})
	a.Logger.Info("Portal revocations kept in Redis", zap.String("addr", fmt.Sprintf("%s:%d", r.Host, r.Port)))
	return store, nil
}
