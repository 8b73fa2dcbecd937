package operations

import (
	"net/mail"
	"strings"

	"github.com/outvoice/backend/internal/domain/shared"
)

// StaffMember is someone tasks can be assigned to
type StaffMember struct {
	shared.BaseAggregateRoot
	Name  string
	Email string
	Role  string
}

// NewStaffMember creates a staff member; name and email are required
func NewStaffMember(id, name, email, role string) (*StaffMember, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	return &StaffMember{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Name:              name,
		Email:             email,
		Role:              strings.TrimSpace(role),
	}, nil
}

// Clone returns a copy without pending events
func (s *StaffMember) Clone() *StaffMember {
	cp := *s
	cp.ClearDomainEvents()
	return &cp
}
