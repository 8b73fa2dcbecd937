package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// AI call outcomes
const (
	AIOutcomeSuccess = "success"
	AIOutcomeError   = "error"
	AIOutcomeStale   = "stale"
)

// BusinessMetrics records invoicing activity. It subscribes to the event bus
// and is also called directly around AI requests.
type BusinessMetrics struct {
	logger *zap.Logger

	documentsCreated *Counter
	invoicesPaid     *Counter
	amountInvoiced   *FloatCounter
	amountPaid       *FloatCounter
	quotesAccepted   *Counter
	purchaseOrders   *Counter
	clientsCreated   *Counter
	aiRequests       *Counter
	aiDuration       *Histogram
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error

	if bm.documentsCreated, err = NewCounter(meter,
		"outvoice_documents_created_total", "Invoices and quotes numbered and stored", "{document}"); err != nil {
		return nil, err
	}
	if bm.invoicesPaid, err = NewCounter(meter,
		"outvoice_invoices_paid_total", "Invoices marked as paid", "{invoice}"); err != nil {
		return nil, err
	}
	if bm.amountInvoiced, err = NewFloatCounter(meter,
		"outvoice_invoiced_amount_total", "Sum of created invoice totals", "{currency}"); err != nil {
		return nil, err
	}
	if bm.amountPaid, err = NewFloatCounter(meter,
		"outvoice_paid_amount_total", "Sum of settled invoice amounts", "{currency}"); err != nil {
		return nil, err
	}
	if bm.quotesAccepted, err = NewCounter(meter,
		"outvoice_quotes_accepted_total", "Quotes approved by clients", "{quote}"); err != nil {
		return nil, err
	}
	if bm.purchaseOrders, err = NewCounter(meter,
		"outvoice_purchase_orders_generated_total", "Purchase orders generated from stock shortfalls", "{order}"); err != nil {
		return nil, err
	}
	if bm.clientsCreated, err = NewCounter(meter,
		"outvoice_clients_created_total", "Clients added", "{client}"); err != nil {
		return nil, err
	}
	if bm.aiRequests, err = NewCounter(meter,
		"outvoice_ai_requests_total", "Generative AI requests by surface and outcome", "{request}"); err != nil {
		return nil, err
	}
	if bm.aiDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "outvoice_ai_request_duration_seconds",
		Description: "Generative AI request latency",
		Unit:        "s",
		Boundaries:  AIDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return bm, nil
}

// Handle records the metric matching a domain event
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.InvoiceCreatedEvent:
		bm.documentsCreated.Inc(ctx, AttrDocumentType.String(billing.AggregateTypeInvoice))
		bm.amountInvoiced.Add(ctx, e.Total.InexactFloat64(), AttrCurrency.String(e.Currency))
	case *billing.InvoicePaidEvent:
		bm.invoicesPaid.Inc(ctx, AttrPaymentMethod.String(e.PaymentMethod))
		bm.amountPaid.Add(ctx, e.AmountPaid.InexactFloat64(), AttrCurrency.String(e.Currency))
	case *billing.QuoteCreatedEvent:
		bm.documentsCreated.Inc(ctx, AttrDocumentType.String(billing.AggregateTypeQuote))
	case *billing.QuoteAcceptedEvent:
		bm.quotesAccepted.Inc(ctx)
	case *trade.PurchaseOrderGeneratedEvent:
		bm.purchaseOrders.Inc(ctx)
	case *partner.ClientCreatedEvent:
		bm.clientsCreated.Inc(ctx)
	default:
		bm.logger.Debug("No metric for event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// EventTypes lists the events that carry a metric
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceCreated,
		billing.EventTypeInvoicePaid,
		billing.EventTypeQuoteCreated,
		billing.EventTypeQuoteAccepted,
		trade.EventTypePurchaseOrderGenerated,
		partner.EventTypeClientCreated,
	}
}

// RecordAIRequest records one AI call on surface
func (bm *BusinessMetrics) RecordAIRequest(ctx context.Context, surface string, err error, elapsed time.Duration) {
	outcome := AIOutcomeSuccess
	switch {
	case errors.Is(err, shared.ErrStaleRequest), errors.Is(err, context.Canceled):
		outcome = AIOutcomeStale
	case err != nil:
		outcome = AIOutcomeError
	}
	bm.aiRequests.Inc(ctx, AttrAISurface.String(surface), AttrAIOutcome.String(outcome))
	bm.aiDuration.RecordDuration(ctx, elapsed, AttrAISurface.String(surface))
}
