package portal

import (
	"context"
	"errors"
	"testing"
	"time"

	appbilling "github.com/outvoice/backend/internal/application/billing"
	appdocument "github.com/outvoice/backend/internal/application/document"
	appoperations "github.com/outvoice/backend/internal/application/operations"
	apppartner "github.com/outvoice/backend/internal/application/partner"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type portalFixture struct {
	svc       *Service
	state     *memory.State
	tokens    *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newPortal(t *testing.T) portalFixture {
	t.Helper()
	ctx := context.Background()
	state := memory.NewState()

	for _, c := range []struct{ id, name string }{{"cli-1", "Thabo Mokoena"}, {"cli-2", "Naledi Dlamini"}} {
		client, err := partner.NewClient(c.id, c.name, c.id+"@example.co.za", "", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, state.Clients.Save(ctx, client))
	}
	clients, err := state.Clients.FindAll(ctx)
	require.NoError(t, err)

	item, err := billing.NewLineItem("Website build", decimal.NewFromInt(1), decimal.NewFromInt(5000))
	require.NoError(t, err)
	for i, c := range clients {
		q, err := billing.NewQuoteDraft(billing.QuoteDraft{
			Client:     c.Snapshot(),
			IssueDate:  valueobject.MustParseDate("2024-06-01"),
			ExpiryDate: valueobject.MustParseDate("2024-07-01"),
			Items:      []billing.LineItem{item},
		})
		require.NoError(t, err)
		require.NoError(t, q.AssignNumber([]string{"Q-001", "Q-002"}[i]))
		require.NoError(t, q.Send())
		require.NoError(t, state.Quotes.Save(ctx, q))
	}

	tokens, err := auth.NewJWTService(config.PortalConfig{JWTSecret: "portal-secret", Issuer: "outvoice", TokenTTL: time.Hour})
	require.NoError(t, err)
	blacklist := auth.NewInMemoryTokenBlacklist()

	svc := NewService(
		apppartner.NewClientService(state.Clients),
		appbilling.NewInvoiceService(state.Invoices, state.Clients, state.Profile),
		appbilling.NewQuoteService(state.Quotes, state.Clients, state.Profile),
		appdocument.NewFileService(state.Files, state.Clients, storage.NewMemoryStorage()),
		appoperations.NewAppointmentService(state.Appointments, state.Clients),
		tokens,
		blacklist,
	)
	return portalFixture{svc: svc, state: state, tokens: tokens, blacklist: blacklist}
}

func quoteIDFor(t *testing.T, state *memory.State, clientID string) string {
	t.Helper()
	quotes, err := state.Quotes.FindAll(context.Background())
	require.NoError(t, err)
	for _, q := range quotes {
		if q.Client.ID == clientID {
			return q.ID
		}
	}
	t.Fatalf("no quote for %s", clientID)
	return ""
}

func TestService_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newPortal(t)

	_, err := f.svc.Login(ctx, LoginRequest{ClientID: "cli-404"})
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_CLIENT", de.Code)

	session, err := f.svc.Login(ctx, LoginRequest{ClientID: "cli-1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)

	claims, err := f.tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Thabo Mokoena", claims.ClientName)

	require.NoError(t, f.svc.Logout(ctx, claims))
	revoked, err := f.blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestService_Overview(t *testing.T) {
	f := newPortal(t)

	overview, err := f.svc.Overview(context.Background(), "cli-1")
	require.NoError(t, err)
	assert.Equal(t, "Thabo Mokoena", overview.Client.Name)
	require.Len(t, overview.Quotes, 1)
	assert.Equal(t, "Q-001", overview.Quotes[0].QuoteNumber)
	assert.Empty(t, overview.Invoices)
	assert.Empty(t, overview.Files)
}

func TestService_ApproveQuote(t *testing.T) {
	ctx := context.Background()
	f := newPortal(t)

	_, err := f.svc.ApproveQuote(ctx, "cli-1", quoteIDFor(t, f.state, "cli-2"))
	assert.ErrorIs(t, err, shared.ErrNotFound)

	resp, err := f.svc.ApproveQuote(ctx, "cli-1", quoteIDFor(t, f.state, "cli-1"))
	require.NoError(t, err)
	assert.Equal(t, "Accepted", resp.Status)
}

func TestService_UploadKyc(t *testing.T) {
	ctx := context.Background()
	f := newPortal(t)

	resp, err := f.svc.UploadKyc(ctx, "cli-1", appdocument.UploadFileRequest{
		ClientID: "cli-2",
		Tag:      "General",
		FileName: "passport.pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cli-1", resp.ClientID)
	assert.Equal(t, "KYC", resp.Tag)

	client, err := f.state.Clients.FindByID(ctx, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, partner.KycStatusSubmitted, client.KycStatus)
}

func TestService_RequestAppointment(t *testing.T) {
	ctx := context.Background()
	f := newPortal(t)

	_, err := f.svc.RequestAppointment(ctx, "cli-1", appoperations.RequestAppointmentRequest{RequestedTime: "10:00"})
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_INPUT", de.Code)

	resp, err := f.svc.RequestAppointment(ctx, "cli-1", appoperations.RequestAppointmentRequest{
		RequestedDate: valueobject.MustParseDate("2024-06-20"),
		RequestedTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pending", resp.Status)
	assert.Equal(t, "Thabo Mokoena", resp.ClientName)
}
