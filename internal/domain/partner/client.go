package partner

import (
	"regexp"
	"slices"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// KycStatus represents the compliance (FICA/KYC) state of a client
type KycStatus string

const (
	KycStatusPending   KycStatus = "Pending"
	KycStatusSubmitted KycStatus = "Submitted"
	KycStatusApproved  KycStatus = "Approved"
	KycStatusRejected  KycStatus = "Rejected"
)

// IsValid checks if the status is a known KYC status
func (s KycStatus) IsValid() bool {
	switch s {
	case KycStatusPending, KycStatusSubmitted, KycStatusApproved, KycStatusRejected:
		return true
	}
	return false
}

// RequiredDoc is a kind of compliance document a client must supply
type RequiredDoc string

const (
	DocID             RequiredDoc = "ID"
	DocProofOfAddress RequiredDoc = "Proof of Address"
)

// DefaultRequiredDocs is what every new client owes before approval
var DefaultRequiredDocs = []RequiredDoc{DocID, DocProofOfAddress}

// IsValid checks if the document kind is known
func (d RequiredDoc) IsValid() bool {
	return d == DocID || d == DocProofOfAddress
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Client is the aggregate root for a billed customer
type Client struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	Address      string
	HourlyRate   decimal.Decimal
	KycStatus    KycStatus
	RequiredDocs []RequiredDoc
}

// NewClient creates a client awaiting KYC with the default required documents
func NewClient(id, name, email, address string, hourlyRate decimal.Decimal) (*Client, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_ID", "Client ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if hourlyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	client := &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Name:              name,
		Email:             email,
		Address:           address,
		HourlyRate:        hourlyRate,
		KycStatus:         KycStatusPending,
		RequiredDocs:      slices.Clone(DefaultRequiredDocs),
	}
	client.AddDomainEvent(NewClientCreatedEvent(client))
	return client, nil
}

// Update replaces the client's contact details and billing rate.
// Documents already issued keep their own snapshot.
func (c *Client) Update(name, email, address string, hourlyRate decimal.Decimal) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateClientName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	c.Name = name
	c.Email = email
	c.Address = address
	c.HourlyRate = hourlyRate
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetKycStatus records a compliance review outcome
func (c *Client) SetKycStatus(status KycStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_KYC_STATUS", "Unknown KYC status: "+string(status))
	}
	if status == c.KycStatus {
		return nil
	}
	old := c.KycStatus
	c.KycStatus = status
	if status == KycStatusApproved {
		c.RequiredDocs = []RequiredDoc{}
	}
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewClientKycStatusChangedEvent(c, old))
	return nil
}

// SubmitKycDocuments marks that the client uploaded compliance documents.
// Approved clients stay approved.
func (c *Client) SubmitKycDocuments() {
	if c.KycStatus == KycStatusPending || c.KycStatus == KycStatusRejected {
		_ = c.SetKycStatus(KycStatusSubmitted)
	}
}

// MissingDocs returns the documents still owed
func (c *Client) MissingDocs() []RequiredDoc {
	return slices.Clone(c.RequiredDocs)
}

// Snapshot copies the client's current fields for embedding into a document
func (c *Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Address:      c.Address,
		HourlyRate:   c.HourlyRate,
		KycStatus:    c.KycStatus,
		RequiredDocs: slices.Clone(c.RequiredDocs),
	}
}

// Clone returns a deep copy without pending events
func (c *Client) Clone() *Client {
	cp := *c
	cp.RequiredDocs = slices.Clone(c.RequiredDocs)
	cp.ClearDomainEvents()
	return &cp
}

// ClientSnapshot is the value copy of a client held by invoices and quotes.
// Later edits to the client do not touch it.
type ClientSnapshot struct {
	ID           string
	Name         string
	Email        string
	Address      string
	HourlyRate   decimal.Decimal
	KycStatus    KycStatus
	RequiredDocs []RequiredDoc
}

// Clone returns a deep copy of the snapshot
func (s ClientSnapshot) Clone() ClientSnapshot {
	s.RequiredDocs = slices.Clone(s.RequiredDocs)
	return s
}

// IsZero reports whether no client was attached
func (s ClientSnapshot) IsZero() bool {
	return s.ID == ""
}

// FirstName returns the first word of the client name
func (s ClientSnapshot) FirstName() string {
	parts := strings.Fields(s.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns everything after the first word of the client name
func (s ClientSnapshot) LastName() string {
	parts := strings.Fields(s.Name)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Client email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
