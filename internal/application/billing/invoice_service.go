package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/outvoice/backend/internal/application/event"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/payment"
	"github.com/outvoice/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// defaultPaymentTermDays applies when an invoice is saved without a due date
const defaultPaymentTermDays = 30

// PaymentInitiator builds gateway payment instructions
type PaymentInitiator interface {
	Initiate(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentInstruction, error)
}

// InvoicePrinter renders the printable invoice view
type InvoicePrinter interface {
	Invoice(ctx context.Context, view export.InvoiceView, format export.Format) (*export.File, error)
}

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  partner.ClientRepository
	profileRepo company.ProfileRepository
	payments    PaymentInitiator
	printer     InvoicePrinter
	events      *event.Dispatcher
	now         func() time.Time

	// writes serialises every read-modify-write of invoices and the
	// invoice counter
	writes sync.Mutex
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	profileRepo company.ProfileRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = event.NewDispatcher(publisher)
}

// SetPaymentInitiator sets the gateway registry used by InitiatePayment
func (s *InvoiceService) SetPaymentInitiator(p PaymentInitiator) {
	s.payments = p
}

// SetPrinter sets the renderer used by Print
func (s *InvoiceService) SetPrinter(p InvoicePrinter) {
	s.printer = p
}

func (s *InvoiceService) today() valueobject.Date {
	return valueobject.DateOf(s.now())
}

// Save creates an invoice when req.ID is empty and replaces it in place otherwise.
// New invoices are numbered from the company counter, stepping past numbers
// already held, and the counter is advanced in the same critical section.
func (s *InvoiceService) Save(ctx context.Context, req SaveInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "save", telemetry.SpanAttrClientID, req.ClientID)
	defer span.End()

	draft, err := s.buildDraft(ctx, req)
	if err != nil {
		return nil, err
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var inv *billing.Invoice
	if req.ID != "" {
		inv, err = s.invoiceRepo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if err := inv.Revise(draft); err != nil {
			return nil, err
		}
	} else {
		inv, err = billing.NewInvoiceDraft(draft)
		if err != nil {
			return nil, err
		}
	}
	inv.ApplyTotals(profile.TaxRate)
	if err := inv.CheckAmountPaid(); err != nil {
		return nil, err
	}

	created := !inv.IsSaved()
	if created {
		all, err := s.invoiceRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		number, next := billing.NextInvoiceNumber(profile.InvoicePrefix, profile.InvoiceCounter, billing.NumberSet(invoiceNumbers(all)))
		if err := inv.AssignNumber(number); err != nil {
			return nil, err
		}
		profile.AdvanceInvoiceCounter(next)
	}
	if req.Status != "" {
		if err := inv.ChangeStatus(billing.InvoiceStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if created {
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber)
	logger.L(ctx).Info("Invoice saved",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Bool("created", created),
		zap.String("total", inv.Total.StringFixed(2)))

	s.events.Flush(ctx, inv)
	resp := ToInvoiceResponse(inv, s.today())
	return &resp, nil
}

func (s *InvoiceService) buildDraft(ctx context.Context, req SaveInvoiceRequest) (billing.InvoiceDraft, error) {
	client, err := resolveClient(ctx, s.clientRepo, req.ClientID)
	if err != nil {
		return billing.InvoiceDraft{}, err
	}
	items, err := ToLineItems(req.Items)
	if err != nil {
		return billing.InvoiceDraft{}, err
	}
	issue := req.IssueDate
	if issue.IsZero() {
		issue = s.today()
	}
	due := req.DueDate
	if due.IsZero() {
		due = issue.AddDays(defaultPaymentTermDays)
	}
	return billing.InvoiceDraft{
		Client:    client,
		IssueDate: issue,
		DueDate:   due,
		Items:     items,
		Currency:  parseCurrency(req.Currency),
		Notes:     req.Notes,
	}, nil
}

// GetByID returns an invoice by its number
func (s *InvoiceService) GetByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, s.today())
	return &resp, nil
}

// List returns invoices in insertion order, filtered by effective status and client
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, error) {
	var (
		invoices []*billing.Invoice
		err      error
	)
	if filter.ClientID != "" {
		invoices, err = s.invoiceRepo.FindByClient(ctx, filter.ClientID)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	today := s.today()
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		if filter.Status != "" && inv.EffectiveStatus(today).String() != filter.Status {
			continue
		}
		out = append(out, ToInvoiceResponse(inv, today))
	}
	return out, nil
}

// MarkAsPaid settles an invoice in full, or records a part payment of req.Amount
func (s *InvoiceService) MarkAsPaid(ctx context.Context, id string, req MarkPaidRequest) (*InvoiceResponse, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	method := req.PaymentMethod
	if method == "" {
		method = "manual"
		if profile, err := s.profileRepo.Get(ctx); err == nil && profile.PreferredGateway.IsValid() {
			method = profile.PreferredGateway.String()
		}
	}
	if req.Amount != nil {
		err = inv.RecordPayment(*req.Amount, method)
	} else {
		err = inv.MarkAsPaid(method)
	}
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Invoice payment recorded",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("payment_method", method),
		zap.String("status", inv.Status.String()))

	s.events.Flush(ctx, inv)
	resp := ToInvoiceResponse(inv, s.today())
	return &resp, nil
}

// InitiatePayment asks the company's preferred gateway how to collect the balance
func (s *InvoiceService) InitiatePayment(ctx context.Context, id string) (*payment.PaymentInstruction, error) {
	if s.payments == nil {
		return nil, payment.ErrUnsupportedGateway
	}
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == billing.InvoiceStatusPaid || !inv.Balance().IsPositive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice has no outstanding balance")
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "initiate_payment",
		telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber,
		telemetry.SpanAttrGateway, profile.PreferredGateway.String())
	defer span.End()

	instruction, err := s.payments.Initiate(ctx, payment.PaymentRequest{Invoice: inv, Profile: profile})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return instruction, nil
}

// Print renders the invoice as HTML or PDF
func (s *InvoiceService) Print(ctx context.Context, id string, format export.Format) (*export.File, error) {
	if s.printer == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Invoice printing is not configured")
	}
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "print",
		telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber,
		telemetry.SpanAttrExportFormat, string(format))
	defer span.End()

	file, err := s.printer.Invoice(ctx, export.NewInvoiceView(profile, inv, s.today()), format)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return file, nil
}

// resolveClient snapshots the client a document is billed to
func resolveClient(ctx context.Context, repo partner.ClientRepository, clientID string) (partner.ClientSnapshot, error) {
	if clientID == "" {
		return partner.ClientSnapshot{}, shared.NewDomainError("INVALID_CLIENT", "A client is required")
	}
	client, err := repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return partner.ClientSnapshot{}, shared.NewDomainError("INVALID_CLIENT", "Client not found: "+clientID)
		}
		return partner.ClientSnapshot{}, err
	}
	return client.Snapshot(), nil
}

func invoiceNumbers(invoices []*billing.Invoice) []string {
	numbers := make([]string, len(invoices))
	for i, inv := range invoices {
		numbers[i] = inv.InvoiceNumber
	}
	return numbers
}
