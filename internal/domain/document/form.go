package document

import (
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/shared"
)

// FieldType is the input kind of a form field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
)

// FormField is one question on a custom form
type FormField struct {
	ID       string
	Label    string
	Type     FieldType
	Required bool
}

// CustomForm is an intake or feedback form clients can fill in
type CustomForm struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Fields      []FormField
}

// NewCustomForm creates a form
func NewCustomForm(id, title, description string, fields []FormField) (*CustomForm, error) {
	f := &CustomForm{BaseAggregateRoot: shared.NewBaseAggregateRoot(id)}
	if err := f.apply(title, description, fields); err != nil {
		return nil, err
	}
	return f, nil
}

// Update replaces the title, description and fields
func (f *CustomForm) Update(title, description string, fields []FormField) error {
	if err := f.apply(title, description, fields); err != nil {
		return err
	}
	f.Touch()
	f.IncrementVersion()
	return nil
}

func (f *CustomForm) apply(title, description string, fields []FormField) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Form title cannot be empty")
	}
	seen := make(map[string]bool, len(fields))
	out := make([]FormField, 0, len(fields))
	for _, field := range fields {
		field.Label = strings.TrimSpace(field.Label)
		if field.Label == "" {
			return shared.NewDomainError("INVALID_FIELD", "Field label cannot be empty")
		}
		if field.Type == "" {
			field.Type = FieldTypeText
		}
		if field.Type != FieldTypeText && field.Type != FieldTypeTextarea {
			return shared.NewDomainError("INVALID_FIELD", "Unsupported field type: "+string(field.Type))
		}
		if field.ID == "" {
			field.ID = shared.NewID("field")
		}
		if seen[field.ID] {
			return shared.NewDomainError("INVALID_FIELD", "Duplicate field id: "+field.ID)
		}
		seen[field.ID] = true
		out = append(out, field)
	}
	f.Title = title
	f.Description = strings.TrimSpace(description)
	f.Fields = out
	return nil
}

// Clone returns a copy without pending events
func (f *CustomForm) Clone() *CustomForm {
	cp := *f
	cp.Fields = append([]FormField(nil), f.Fields...)
	cp.ClearDomainEvents()
	return &cp
}

// FormSubmission is one set of answers to a form, keyed by field id
type FormSubmission struct {
	shared.BaseEntity
	FormID      string
	SubmittedAt time.Time
	Data        map[string]string
}

// Submit validates answers against the form's fields.
// Required fields must be non-blank; answers to unknown fields are dropped.
func (f *CustomForm) Submit(id string, data map[string]string, at time.Time) (*FormSubmission, error) {
	answers := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		v := strings.TrimSpace(data[field.ID])
		if field.Required && v == "" {
			return nil, shared.NewDomainError("MISSING_FIELD", field.Label+" is required")
		}
		if v != "" {
			answers[field.ID] = v
		}
	}
	return &FormSubmission{
		BaseEntity:  shared.NewBaseEntity(id),
		FormID:      f.ID,
		SubmittedAt: at,
		Data:        answers,
	}, nil
}

// Clone returns a copy of the submission
func (s *FormSubmission) Clone() *FormSubmission {
	cp := *s
	cp.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		cp.Data[k] = v
	}
	return &cp
}
