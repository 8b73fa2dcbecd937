package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/ai"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

// MockTextGenerator is a mock implementation of ai.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, p ai.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

type recordedCall struct {
	surface string
	err     error
}

type recordingMetrics struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recordingMetrics) RecordAIRequest(_ context.Context, surface string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{surface: surface, err: err})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %T: %v", err, err)
	assert.Equal(t, code, de.Code)
}

func userContains(parts ...string) any {
	return mock.MatchedBy(func(p ai.Prompt) bool {
		for _, part := range parts {
			if !strings.Contains(p.User, part) {
				return false
			}
		}
		return true
	})
}

func newTestService(t *testing.T, gen ai.TextGenerator) (*Service, *memory.State, *recordingMetrics) {
	t.Helper()
	ctx := context.Background()
	state := memory.NewState()

	client, err := partner.NewClient("cli-1", "Thabo Mokoena", "thabo@example.co.za", "12 Long Street, Cape Town", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, state.Clients.Save(ctx, client))

	item, err := billing.NewLineItem("Consulting", decimal.NewFromInt(2), decimal.NewFromInt(100))
	require.NoError(t, err)
	inv, err := billing.NewInvoiceDraft(billing.InvoiceDraft{
		Client:    client.Snapshot(),
		IssueDate: valueobject.MustParseDate("2024-06-01"),
		DueDate:   valueobject.MustParseDate("2024-07-01"),
		Items:     []billing.LineItem{item},
	})
	require.NoError(t, err)
	inv.ApplyTotals(decimal.NewFromInt(15))
	require.NoError(t, inv.AssignNumber("INV-0001"))
	require.NoError(t, state.Invoices.Save(ctx, inv))

	q, err := billing.NewQuoteDraft(billing.QuoteDraft{
		Client:     client.Snapshot(),
		IssueDate:  valueobject.MustParseDate("2024-06-01"),
		ExpiryDate: valueobject.MustParseDate("2024-06-20"),
		Items:      []billing.LineItem{item},
	})
	require.NoError(t, err)
	q.ApplyTotals(decimal.NewFromInt(15))
	require.NoError(t, q.AssignNumber("Q-001"))
	require.NoError(t, state.Quotes.Save(ctx, q))

	metrics := &recordingMetrics{}
	svc := NewService(gen, state.Invoices, state.Quotes, state.Clients, state.Products, state.Profile)
	svc.SetMetrics(metrics)
	svc.now = func() time.Time { return fixedNow }
	return svc, state, metrics
}

func TestService_InvoiceSummary(t *testing.T) {
	t.Run("no descriptions skips the model", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.InvoiceSummary(context.Background(), SummaryRequest{Items: []SummaryItem{{Description: "  "}}})
		require.NoError(t, err)
		assert.Empty(t, resp.Text)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("line items are sent and the answer trimmed", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, userContains("2 x Consulting @ 100.00")).
			Return("  Strategy consulting for June.\n", nil).Once()
		svc, _, metrics := newTestService(t, gen)

		resp, err := svc.InvoiceSummary(context.Background(), SummaryRequest{Items: []SummaryItem{{
			Description: "Consulting", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100),
		}}})
		require.NoError(t, err)
		assert.Equal(t, "Strategy consulting for June.", resp.Text)
		require.Len(t, metrics.calls, 1)
		assert.Equal(t, SurfaceSummary, metrics.calls[0].surface)
		gen.AssertExpectations(t)
	})
}

func TestService_Ask(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		gen := new(MockTextGenerator)
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.Ask(context.Background(), AskRequest{Question: " "})
		require.NoError(t, err)
		assert.Equal(t, askFallback, resp.Text)
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("business data is in the prompt", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p ai.Prompt) bool {
			return strings.Contains(p.System, "TollieB") &&
				strings.Contains(p.User, `"invoiceNumber":"INV-0001"`) &&
				strings.Contains(p.User, `"total":"230.00"`) &&
				strings.Contains(p.User, `"name":"Thabo Mokoena"`)
		})).Return("You have **1** client.", nil).Once()
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.Ask(context.Background(), AskRequest{Question: "How many clients do I have?"})
		require.NoError(t, err)
		assert.Equal(t, "You have **1** client.", resp.Text)
		gen.AssertExpectations(t)
	})
}

func TestService_DraftInvoice(t *testing.T) {
	t.Run("client matched by name and quantity defaulted", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p ai.Prompt) bool {
			return p.JSON && strings.Contains(p.User, `{"id":"cli-1","name":"Thabo Mokoena"}`)
		})).Return("```json\n"+`{"client": {"id": "cli-99", "name": "thabo mokoena"},
 "items": [{"description": "Logo design", "rate": 1500}, {"description": "", "quantity": 2, "rate": 10}],
 "notes": "Logo work"}`+"\n```", nil).Once()
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.DraftInvoice(context.Background(), DraftInvoiceRequest{Text: "Hi, Thabo here. Please bill me for the logo."})
		require.NoError(t, err)
		assert.Equal(t, "cli-1", resp.ClientID)
		assert.Equal(t, "Thabo Mokoena", resp.ClientName)
		assert.Equal(t, "Logo work", resp.Notes)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
		assert.True(t, resp.Items[0].Rate.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("unknown client leaves the draft unassigned", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).
			Return(`{"client": {"id": "", "name": "Someone Else"}, "items": []}`, nil).Once()
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.DraftInvoice(context.Background(), DraftInvoiceRequest{Text: "hello"})
		require.NoError(t, err)
		assert.Empty(t, resp.ClientID)
		assert.Empty(t, resp.Items)
	})

	t.Run("empty text", func(t *testing.T) {
		svc, _, _ := newTestService(t, new(MockTextGenerator))
		_, err := svc.DraftInvoice(context.Background(), DraftInvoiceRequest{Text: "   "})
		assertCode(t, err, "INVALID_INPUT")
	})

	t.Run("unparseable reply", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("I could not find anything.", nil).Once()
		svc, _, _ := newTestService(t, gen)

		_, err := svc.DraftInvoice(context.Background(), DraftInvoiceRequest{Text: "hello"})
		assertCode(t, err, ai.CodeRequestFailed)
	})
}

func TestService_DraftMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("reminder quotes the balance", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, userContains("payment reminder for invoice INV-0001", "2024-07-01", "ZAR 230.00")).
			Return("Dear Thabo", nil).Once()
		svc, _, _ := newTestService(t, gen)

		resp, err := svc.DraftMessage(ctx, MessageRequest{Type: MessageReminder, InvoiceID: "INV-0001"})
		require.NoError(t, err)
		assert.Equal(t, "Dear Thabo", resp.Text)
		gen.AssertExpectations(t)
	})

	t.Run("quote follow up", func(t *testing.T) {
		gen := new(MockTextGenerator)
		gen.On("Generate", mock.Anything, userContains("quote Q-001", "expires on 2024-06-20")).Return("Hi", nil).Once()
		svc, _, _ := newTestService(t, gen)

		_, err := svc.DraftMessage(ctx, MessageRequest{Type: MessageQuoteFollowUp, QuoteID: "Q-001"})
		require.NoError(t, err)
		gen.AssertExpectations(t)
	})

	t.Run("missing references", func(t *testing.T) {
		svc, _, _ := newTestService(t, new(MockTextGenerator))

		_, err := svc.DraftMessage(ctx, MessageRequest{Type: MessageQuoteFollowUp})
		assertCode(t, err, "INVALID_INPUT")
		_, err = svc.DraftMessage(ctx, MessageRequest{Type: MessageThankYou})
		assertCode(t, err, "INVALID_INPUT")
		_, err = svc.DraftMessage(ctx, MessageRequest{Type: MessageThankYou, InvoiceID: "INV-0404"})
		assertCode(t, err, "NOT_FOUND")
	})
}

func TestService_DraftDocument(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p ai.Prompt) bool {
		return strings.Contains(p.System, "legal assistant") &&
			strings.Contains(p.User, "Delivery Note for invoice INV-0001") &&
			strings.Contains(p.User, "- 2 x Consulting") &&
			strings.Contains(p.User, "12 Long Street, Cape Town")
	})).Return("DELIVERY NOTE", nil).Once()
	svc, _, _ := newTestService(t, gen)

	resp, err := svc.DraftDocument(context.Background(), DocumentRequest{
		Type: DocumentDeliveryNote, ClientID: "cli-1", InvoiceID: "INV-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, "DELIVERY NOTE", resp.Text)

	_, err = svc.DraftDocument(context.Background(), DocumentRequest{Type: DocumentContract, ClientID: "cli-404"})
	assertCode(t, err, "NOT_FOUND")
}

func TestService_CompanyInfo(t *testing.T) {
	tests := []struct {
		name    string
		vat     string
		wantVat string
	}{
		{"valid", "4123456789", "4123456789"},
		{"spaces removed", "412 345 6789", "4123456789"},
		{"wrong prefix", "5123456789", ""},
		{"too short", "412345", ""},
		{"missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockTextGenerator)
			gen.On("Generate", mock.Anything, mock.MatchedBy(func(p ai.Prompt) bool {
				return p.JSON && len(p.Images) == 1 && p.Images[0].MimeType == "image/png"
			})).Return(`{"companyName": " Outvoice (Pty) Ltd ", "registrationNumber": "2020/123456/07", "vatNumber": "`+tt.vat+`", "address": "1 Main Road"}`, nil).Once()
			svc, _, _ := newTestService(t, gen)

			resp, err := svc.CompanyInfo(context.Background(), "", ai.Image{MimeType: "image/png", Data: []byte{0x89, 0x50}})
			require.NoError(t, err)
			assert.Equal(t, "Outvoice (Pty) Ltd", resp.CompanyName)
			assert.Equal(t, "2020/123456/07", resp.RegistrationNumber)
			assert.Equal(t, tt.wantVat, resp.VatNumber)
		})
	}

	t.Run("no image", func(t *testing.T) {
		svc, _, _ := newTestService(t, new(MockTextGenerator))
		_, err := svc.CompanyInfo(context.Background(), "", ai.Image{})
		assertCode(t, err, "INVALID_INPUT")
	})
}

func TestService_KycRequestEmail(t *testing.T) {
	ctx := context.Background()
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, userContains(`"Thabo Mokoena"`, "ID, Proof of Address", "client portal")).
		Return("Please upload", nil).Once()
	svc, state, _ := newTestService(t, gen)

	resp, err := svc.KycRequestEmail(ctx, "cli-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Please upload", resp.Text)

	client, err := state.Clients.FindByID(ctx, "cli-1")
	require.NoError(t, err)
	require.NoError(t, client.SetKycStatus(partner.KycStatusApproved))
	require.NoError(t, state.Clients.Save(ctx, client))

	_, err = svc.KycRequestEmail(ctx, "cli-1", "")
	assertCode(t, err, "INVALID_STATE")
	gen.AssertExpectations(t)
}

func TestService_ScheduleTasks(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, userContains("Thabo Mokoena", "2024-06-01", "2 x Consulting")).
		Return(`[{"title": "Kick-off", "dueDate": "2024-06-03"}, {"title": "Report", "dueDate": "next week"}, {"title": " ", "dueDate": "2024-06-10"}]`, nil).Once()
	svc, _, _ := newTestService(t, gen)

	tasks, err := svc.ScheduleTasks(context.Background(), "INV-0001", "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Kick-off", tasks[0].Title)
	assert.Equal(t, "2024-06-03", tasks[0].DueDate.String())
}

func TestService_ExtractReceipt(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(`{"vendor": "Builders Warehouse", "date": "2024-06-12", "amount": 349.99}`, nil).Once()
	svc, _, _ := newTestService(t, gen)

	data, err := svc.ExtractReceipt(context.Background(), "", ai.Image{MimeType: "image/jpeg", Data: []byte("jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "Builders Warehouse", data.Vendor)
	assert.Equal(t, "2024-06-12", data.Date.String())
	assert.True(t, data.Amount.Equal(decimal.RequireFromString("349.99")))
}

func TestService_GeneratorFailure(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()
	svc, _, metrics := newTestService(t, gen)

	_, err := svc.StockForecast(context.Background(), "")
	assertCode(t, err, ai.CodeRequestFailed)
	require.Len(t, metrics.calls, 1)
	assert.Equal(t, SurfaceForecast, metrics.calls[0].surface)
	assert.Error(t, metrics.calls[0].err)
}

func TestService_NotConfigured(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	_, err := svc.StockForecast(context.Background(), "")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}

// blockingGenerator holds the first call until its context is cancelled
type blockingGenerator struct {
	started chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *blockingGenerator) Generate(ctx context.Context, _ ai.Prompt) (string, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-ctx.Done()
		return "old answer", ctx.Err()
	}
	return "new answer", nil
}

func TestService_SupersededCallIsStale(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{})}
	svc, _, _ := newTestService(t, gen)
	ctx := context.Background()

	type result struct {
		resp *TextResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := svc.Ask(ctx, AskRequest{SurfaceKey: "panel-1", Question: "first?"})
		done <- result{resp, err}
	}()
	<-gen.started

	second, err := svc.Ask(ctx, AskRequest{SurfaceKey: "panel-1", Question: "second?"})
	require.NoError(t, err)
	assert.Equal(t, "new answer", second.Text)

	first := <-done
	assert.Nil(t, first.resp)
	assert.ErrorIs(t, first.err, shared.ErrStaleRequest)
}
