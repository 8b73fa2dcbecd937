package company

import (
	"context"
	"sync"

	"github.com/outvoice/backend/internal/domain/company"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProfileService manages the company settings
type ProfileService struct {
	profileRepo company.ProfileRepository
	mu          sync.Mutex
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo company.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Get returns the company settings
func (s *ProfileService) Get(ctx context.Context) (*ProfileResponse, error) {
	p, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// Update replaces the settings. The invoice counter is carried over from the
// stored profile and empty gateway secrets keep their stored value.
func (s *ProfileService) Update(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := company.Profile{
		Name:               req.Name,
		Address:            req.Address,
		Logo:               req.Logo,
		RegistrationNumber: req.RegistrationNumber,
		VatNumber:          req.VatNumber,
		InvoicePrefix:      req.InvoicePrefix,
		InvoiceCounter:     current.InvoiceCounter,
		DefaultTerms:       req.DefaultTerms,
		BankDetails:        req.BankDetails,
		TaxRate:            req.TaxRate,
		PreferredGateway:   company.PaymentGateway(req.PreferredGateway),
		PayfastMerchantID:  req.PayfastMerchantID,
		PayfastMerchantKey: keep(req.PayfastMerchantKey, current.PayfastMerchantKey),
		YocoPublicKey:      req.YocoPublicKey,
		YocoSecretKey:      keep(req.YocoSecretKey, current.YocoSecretKey),
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, next); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Company profile updated",
		zap.String("preferred_gateway", next.PreferredGateway.String()),
		zap.String("tax_rate", next.TaxRate.String()))

	resp := ToProfileResponse(next)
	return &resp, nil
}

func keep(value, stored string) string {
	if value == "" {
		return stored
	}
	return value
}
