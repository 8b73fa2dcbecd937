package operations

import (
	"context"

	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/shared"
)

// StaffService manages the people tasks are assigned to
type StaffService struct {
	staffRepo operations.StaffRepository
	newID     func() string
}

// NewStaffService creates a new StaffService
func NewStaffService(staffRepo operations.StaffRepository) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		newID:     func() string { return shared.NewID("staff") },
	}
}

// Create adds a staff member
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*StaffResponse, error) {
	member, err := operations.NewStaffMember(s.newID(), req.Name, req.Email, req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.staffRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	resp := ToStaffResponse(member)
	return &resp, nil
}

// List returns the staff in insertion order
func (s *StaffService) List(ctx context.Context) ([]StaffResponse, error) {
	members, err := s.staffRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StaffResponse, len(members))
	for i, m := range members {
		out[i] = ToStaffResponse(m)
	}
	return out, nil
}
