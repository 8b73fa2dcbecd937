package document

import (
	"context"
	"time"

	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// FormService manages custom forms and their submissions
type FormService struct {
	formRepo       document.FormRepository
	submissionRepo document.SubmissionRepository
	newFormID      func() string
	newSubmission  func() string
	now            func() time.Time
}

// NewFormService creates a new FormService
func NewFormService(formRepo document.FormRepository, submissionRepo document.SubmissionRepository) *FormService {
	return &FormService{
		formRepo:       formRepo,
		submissionRepo: submissionRepo,
		newFormID:      func() string { return shared.NewID("form") },
		newSubmission:  func() string { return shared.NewID("sub") },
		now:            time.Now,
	}
}

// Create builds a new form
func (s *FormService) Create(ctx context.Context, req SaveFormRequest) (*FormResponse, error) {
	form, err := document.NewCustomForm(s.newFormID(), req.Title, req.Description, req.fields())
	if err != nil {
		return nil, err
	}
	if err := s.formRepo.Save(ctx, form); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Form created", zap.String("form_id", form.ID), zap.Int("fields", len(form.Fields)))
	resp := ToFormResponse(form)
	return &resp, nil
}

// Update replaces a form's title, description and fields.
// Earlier submissions keep the answers they were given.
func (s *FormService) Update(ctx context.Context, id string, req SaveFormRequest) (*FormResponse, error) {
	form, err := s.formRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := form.Update(req.Title, req.Description, req.fields()); err != nil {
		return nil, err
	}
	if err := s.formRepo.Save(ctx, form); err != nil {
		return nil, err
	}
	resp := ToFormResponse(form)
	return &resp, nil
}

// GetByID returns a form
func (s *FormService) GetByID(ctx context.Context, id string) (*FormResponse, error) {
	form, err := s.formRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFormResponse(form)
	return &resp, nil
}

// List returns all forms in creation order
func (s *FormService) List(ctx context.Context) ([]FormResponse, error) {
	forms, err := s.formRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FormResponse, len(forms))
	for i, f := range forms {
		out[i] = ToFormResponse(f)
	}
	return out, nil
}

// Submit records answers to a form
func (s *FormService) Submit(ctx context.Context, formID string, req SubmitFormRequest) (*SubmissionResponse, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	submission, err := form.Submit(s.newSubmission(), req.Data, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Form submitted", zap.String("form_id", form.ID), zap.String("submission_id", submission.ID))
	resp := ToSubmissionResponse(submission)
	return &resp, nil
}

// Submissions lists the answers received for a form
func (s *FormService) Submissions(ctx context.Context, formID string) ([]SubmissionResponse, error) {
	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.FindByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	out := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		out[i] = ToSubmissionResponse(sub)
	}
	return out, nil
}
