package billing

import (
	"context"
	"sync"
	"time"

	"github.com/outvoice/backend/internal/application/event"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// defaultQuoteValidityDays applies when a quote is saved without an expiry date
const defaultQuoteValidityDays = 30

// QuoteService handles quote business operations
type QuoteService struct {
	quoteRepo   billing.QuoteRepository
	clientRepo  partner.ClientRepository
	profileRepo company.ProfileRepository
	events      *event.Dispatcher
	now         func() time.Time
	writes      sync.Mutex
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo billing.QuoteRepository,
	clientRepo partner.ClientRepository,
	profileRepo company.ProfileRepository,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = event.NewDispatcher(publisher)
}

func (s *QuoteService) today() valueobject.Date {
	return valueobject.DateOf(s.now())
}

// Save creates a quote when req.ID is empty and replaces it in place otherwise
func (s *QuoteService) Save(ctx context.Context, req SaveQuoteRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "save", telemetry.SpanAttrClientID, req.ClientID)
	defer span.End()

	client, err := resolveClient(ctx, s.clientRepo, req.ClientID)
	if err != nil {
		return nil, err
	}
	items, err := ToLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	issue := req.IssueDate
	if issue.IsZero() {
		issue = s.today()
	}
	expiry := req.ExpiryDate
	if expiry.IsZero() {
		expiry = issue.AddDays(defaultQuoteValidityDays)
	}
	draft := billing.QuoteDraft{
		Client:     client,
		IssueDate:  issue,
		ExpiryDate: expiry,
		Items:      items,
		Currency:   parseCurrency(req.Currency),
		Notes:      req.Notes,
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var q *billing.Quote
	if req.ID != "" {
		q, err = s.quoteRepo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if err := q.Revise(draft); err != nil {
			return nil, err
		}
	} else {
		q, err = billing.NewQuoteDraft(draft)
		if err != nil {
			return nil, err
		}
	}
	q.ApplyTotals(profile.TaxRate)

	if !q.IsSaved() {
		all, err := s.quoteRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		numbers := make([]string, len(all))
		for i, existing := range all {
			numbers[i] = existing.QuoteNumber
		}
		if err := q.AssignNumber(billing.NextQuoteNumber(len(all), billing.NumberSet(numbers))); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrQuoteNumber, q.QuoteNumber)
	logger.L(ctx).Info("Quote saved",
		zap.String("quote_number", q.QuoteNumber),
		zap.String("total", q.Total.StringFixed(2)))

	s.events.Flush(ctx, q)
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// GetByID returns a quote by its number
func (s *QuoteService) GetByID(ctx context.Context, id string) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// List returns quotes in insertion order
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) ([]QuoteResponse, error) {
	var (
		quotes []*billing.Quote
		err    error
	)
	if filter.ClientID != "" {
		quotes, err = s.quoteRepo.FindByClient(ctx, filter.ClientID)
	} else {
		quotes, err = s.quoteRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		if filter.Status != "" && q.Status.String() != filter.Status {
			continue
		}
		out = append(out, ToQuoteResponse(q))
	}
	return out, nil
}

// Send marks a draft quote as sent to the client
func (s *QuoteService) Send(ctx context.Context, id string) (*QuoteResponse, error) {
	return s.transition(ctx, id, "sent", (*billing.Quote).Send)
}

// Decline records that the client turned the quote down
func (s *QuoteService) Decline(ctx context.Context, id string) (*QuoteResponse, error) {
	return s.transition(ctx, id, "declined", (*billing.Quote).Decline)
}

// Approve records the client's acceptance
func (s *QuoteService) Approve(ctx context.Context, id string) (*QuoteResponse, error) {
	return s.transition(ctx, id, "accepted", (*billing.Quote).Approve)
}

func (s *QuoteService) transition(ctx context.Context, id, action string, apply func(*billing.Quote) error) (*QuoteResponse, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(q); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Quote "+action, zap.String("quote_number", q.QuoteNumber))

	s.events.Flush(ctx, q)
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// Convert pre-fills an unsaved invoice from the quote. Nothing is stored;
// the draft goes through the normal invoice save.
func (s *QuoteService) Convert(ctx context.Context, id string) (*InvoiceResponse, error) {
	q, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	today := s.today()
	resp := ToInvoiceResponse(q.ToInvoiceDraft(today), today)
	return &resp, nil
}
