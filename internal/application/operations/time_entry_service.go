package operations

import (
	"context"
	"errors"
	"sync"
	"time"

	appbilling "github.com/outvoice/backend/internal/application/billing"
	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TimeEntryService handles time tracking and billing logged hours
type TimeEntryService struct {
	entryRepo   operations.TimeEntryRepository
	clientRepo  partner.ClientRepository
	profileRepo company.ProfileRepository
	newID       func() string
	now         func() time.Time
	billing     sync.Mutex
}

// NewTimeEntryService creates a new TimeEntryService
func NewTimeEntryService(
	entryRepo operations.TimeEntryRepository,
	clientRepo partner.ClientRepository,
	profileRepo company.ProfileRepository,
) *TimeEntryService {
	return &TimeEntryService{
		entryRepo:   entryRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		newID:       func() string { return shared.NewID("time") },
		now:         time.Now,
	}
}

// Create logs hours for a client; a missing date means today
func (s *TimeEntryService) Create(ctx context.Context, req CreateTimeEntryRequest) (*TimeEntryResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found: "+req.ClientID)
		}
		return nil, err
	}
	date := req.Date
	if date.IsZero() {
		date = valueobject.DateOf(s.now())
	}
	entry, err := operations.NewTimeEntry(s.newID(), req.ClientID, date, req.Hours, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToTimeEntryResponse(entry)
	return &resp, nil
}

// List returns time entries in insertion order, optionally for one client
func (s *TimeEntryService) List(ctx context.Context, clientID string) ([]TimeEntryResponse, error) {
	entries, err := s.entryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		if clientID != "" && e.ClientID != clientID {
			continue
		}
		out = append(out, ToTimeEntryResponse(e))
	}
	return out, nil
}

// InvoiceDraft turns the selected entries into an unsaved invoice draft for
// their client and removes them from the log. All entries must belong to
// the same client.
func (s *TimeEntryService) InvoiceDraft(ctx context.Context, req TimeEntryInvoiceRequest) (*appbilling.InvoiceResponse, error) {
	if len(req.EntryIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Select at least one time entry")
	}

	s.billing.Lock()
	defer s.billing.Unlock()

	entries := make([]*operations.TimeEntry, 0, len(req.EntryIDs))
	seen := make(map[string]struct{}, len(req.EntryIDs))
	for _, id := range req.EntryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entry, err := s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 && entry.ClientID != entries[0].ClientID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Selected time entries belong to different clients")
		}
		entries = append(entries, entry)
	}

	client, err := s.clientRepo.FindByID(ctx, entries[0].ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found for selected entries")
		}
		return nil, err
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	today := valueobject.DateOf(s.now())
	draft, err := operations.InvoiceDraftFromTime(client.Snapshot(), entries, today)
	if err != nil {
		return nil, err
	}
	draft.ApplyTotals(profile.TaxRate)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := s.entryRepo.Delete(ctx, ids...); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Time entries billed",
		zap.String("client_id", client.ID),
		zap.Int("entries", len(entries)),
		zap.String("total", draft.Total.StringFixed(2)))

	resp := appbilling.ToInvoiceResponse(draft, today)
	return &resp, nil
}
