package memory

import (
	"context"
	"sync"

	"github.com/outvoice/backend/internal/domain/company"
)

// ProfileStore holds the single company profile
type ProfileStore struct {
	mu      sync.RWMutex
	profile company.Profile
}

// NewProfileStore creates a store holding the given profile
func NewProfileStore(initial company.Profile) *ProfileStore {
	return &ProfileStore{profile: initial}
}

// Get returns the current profile
func (s *ProfileStore) Get(ctx context.Context) (company.Profile, error) {
	if err := ctx.Err(); err != nil {
		return company.Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, nil
}

// Save replaces the profile
func (s *ProfileStore) Save(ctx context.Context, profile company.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	return nil
}

var _ company.ProfileRepository = (*ProfileStore)(nil)
