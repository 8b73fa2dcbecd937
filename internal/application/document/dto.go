package document

import (
	"time"

	"github.com/outvoice/backend/internal/domain/document"
	"github.com/outvoice/backend/internal/domain/shared/valueobject"
)

// UploadFileRequest carries an uploaded file
type UploadFileRequest struct {
	ClientID    string
	Tag         string
	FileName    string
	ContentType string
	Data        []byte
}

// FileResponse represents file metadata in API responses
type FileResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Size       int64            `json:"size"`
	ClientID   string           `json:"client_id"`
	UploadDate valueobject.Date `json:"upload_date"`
	Tag        string           `json:"tag"`
}

// ToFileResponse converts a domain ManagedFile to FileResponse
func ToFileResponse(f *document.ManagedFile) FileResponse {
	return FileResponse{
		ID:         f.ID,
		Name:       f.Name,
		Type:       f.Type,
		Size:       f.Size,
		ClientID:   f.ClientID,
		UploadDate: f.UploadDate,
		Tag:        string(f.Tag),
	}
}

// ToFileResponses converts a slice of files
func ToFileResponses(files []*document.ManagedFile) []FileResponse {
	out := make([]FileResponse, len(files))
	for i, f := range files {
		out[i] = ToFileResponse(f)
	}
	return out
}

// FileContent is a downloaded file
type FileContent struct {
	Name        string
	ContentType string
	Data        []byte
}

// DownloadLinkResponse is a short-lived direct download URL
type DownloadLinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FormFieldInput is one field of a form being saved
type FormFieldInput struct {
	ID       string `json:"id"`
	Label    string `json:"label" binding:"required,max=200"`
	Type     string `json:"type" binding:"omitempty,oneof=text textarea"`
	Required bool   `json:"required"`
}

// SaveFormRequest creates or replaces a custom form
type SaveFormRequest struct {
	Title       string           `json:"title" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=1000"`
	Fields      []FormFieldInput `json:"fields" binding:"dive"`
}

func (r SaveFormRequest) fields() []document.FormField {
	out := make([]document.FormField, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = document.FormField{ID: f.ID, Label: f.Label, Type: document.FieldType(f.Type), Required: f.Required}
	}
	return out
}

// FormFieldResponse is one field of a form
type FormFieldResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FormResponse represents a custom form in API responses
type FormResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Fields      []FormFieldResponse `json:"fields"`
	Version     int                 `json:"version"`
}

// ToFormResponse converts a domain CustomForm to FormResponse
func ToFormResponse(f *document.CustomForm) FormResponse {
	fields := make([]FormFieldResponse, len(f.Fields))
	for i, field := range f.Fields {
		fields[i] = FormFieldResponse{ID: field.ID, Label: field.Label, Type: string(field.Type), Required: field.Required}
	}
	return FormResponse{ID: f.ID, Title: f.Title, Description: f.Description, Fields: fields, Version: f.Version}
}

// SubmitFormRequest carries answers keyed by field id
type SubmitFormRequest struct {
	Data map[string]string `json:"data" binding:"required"`
}

// SubmissionResponse represents a form submission in API responses
type SubmissionResponse struct {
	ID          string            `json:"id"`
	FormID      string            `json:"form_id"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Data        map[string]string `json:"data"`
}

// ToSubmissionResponse converts a domain FormSubmission to SubmissionResponse
func ToSubmissionResponse(s *document.FormSubmission) SubmissionResponse {
	return SubmissionResponse{ID: s.ID, FormID: s.FormID, SubmittedAt: s.SubmittedAt, Data: s.Data}
}
