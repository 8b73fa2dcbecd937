package document

import "context"

// FileRepository defines the interface for file metadata persistence
type FileRepository interface {
	FindByID(ctx context.Context, id string) (*ManagedFile, error)
	FindAll(ctx context.Context) ([]*ManagedFile, error)
	FindByClient(ctx context.Context, clientID string) ([]*ManagedFile, error)
	Save(ctx context.Context, file *ManagedFile) error
}

// FormRepository defines the interface for custom form persistence
type FormRepository interface {
	FindByID(ctx context.Context, id string) (*CustomForm, error)
	FindAll(ctx context.Context) ([]*CustomForm, error)
	Save(ctx context.Context, form *CustomForm) error
}

// SubmissionRepository defines the interface for form submission persistence
type SubmissionRepository interface {
	FindByForm(ctx context.Context, formID string) ([]*FormSubmission, error)
	Save(ctx context.Context, submission *FormSubmission) error
}
