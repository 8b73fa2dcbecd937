// Package telemetry ships metrics, traces and logs to an OTLP collector.
// Each provider falls back to the global no-op implementation when its
// signal is not exported.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/outvoice/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// pipeline is the export lifecycle the three providers share.
// It is running once start has been called with the SDK provider's hooks.
type pipeline struct {
	signal      string
	serviceName string
	logger      *zap.Logger
	shutdown    func(context.Context) error
	flush       func(context.Context) error
}

func newPipeline(signal string, cfg config.TelemetryConfig, logger *zap.Logger) pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return pipeline{signal: signal, serviceName: cfg.ServiceName, logger: logger}
}

func (p *pipeline) start(endpoint string, shutdown, flush func(context.Context) error, fields ...zap.Field) {
	p.shutdown, p.flush = shutdown, flush
	p.logger.Info("OTLP export started", append([]zap.Field{
		zap.String("signal", p.signal),
		zap.String("collector_endpoint", endpoint),
		zap.String("service_name", p.serviceName),
	}, fields...)...)
}

func (p *pipeline) disabled() {
	p.logger.Info("OTLP export disabled", zap.String("signal", p.signal))
}

// IsEnabled reports whether the signal is exported
func (p *pipeline) IsEnabled() bool {
	return p.shutdown != nil
}

// ForceFlush exports everything buffered so far
func (p *pipeline) ForceFlush(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}
	return p.flush(ctx)
}

// Shutdown flushes and stops the exporter, waiting at most shutdownTimeout
func (p *pipeline) Shutdown(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := p.shutdown(ctx); err != nil {
		p.logger.Error("OTLP export shutdown failed", zap.String("signal", p.signal), zap.Error(err))
		return fmt.Errorf("failed to shut down %s export: %w", p.signal, err)
	}
	p.logger.Info("OTLP export stopped", zap.String("signal", p.signal))
	return nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
