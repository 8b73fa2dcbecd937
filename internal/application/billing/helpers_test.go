package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %T: %v", err, err)
	require.Equal(t, code, de.Code)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	state     *memory.State
	invoices  *InvoiceService
	quotes    *QuoteService
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	state := memory.NewState()
	client, err := partner.NewClient("cli-1", "Thabo Mokoena", "thabo@example.co.za", "12 Long Street, Cape Town", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, state.Clients.Save(context.Background(), client))

	publisher := &recordingPublisher{}
	invoices := NewInvoiceService(state.Invoices, state.Clients, state.Profile)
	invoices.SetEventPublisher(publisher)
	invoices.now = func() time.Time { return fixedNow }

	quotes := NewQuoteService(state.Quotes, state.Clients, state.Profile)
	quotes.SetEventPublisher(publisher)
	quotes.now = func() time.Time { return fixedNow }

	return &fixture{state: state, invoices: invoices, quotes: quotes, publisher: publisher}
}

func consultingItem(qty, rate int64) LineItemInput {
	return LineItemInput{
		Description: "Consulting",
		Quantity:    decimal.NewFromInt(qty),
		Rate:        decimal.NewFromInt(rate),
	}
}
