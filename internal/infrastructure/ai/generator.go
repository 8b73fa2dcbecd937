// Package ai is the boundary to the hosted language model. Callers build a
// Prompt and get plain text back; structured answers are requested as JSON
// and decoded with DecodeJSON.
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/outvoice/backend/internal/domain/shared"
)

// Error codes surfaced by the AI boundary
const (
	CodeNotConfigured = "AI_NOT_CONFIGURED"
	CodeRequestFailed = "AI_REQUEST_FAILED"
)

// ErrNotConfigured is returned by every call when no model is configured
var ErrNotConfigured = shared.NewDomainError(CodeNotConfigured, "AI features are not configured")

// Image is an inline image sent alongside the user message
type Image struct {
	MimeType string
	Data     []byte
}

// DataURL encodes the image as a base64 data URL
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, base64.StdEncoding.EncodeToString(i.Data))
}

// Prompt is one model request
type Prompt struct {
	System string
	User   string
	Images []Image
	// JSON asks the model for a single JSON object
	JSON bool
}

// TextGenerator produces model output for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// RequestFailed wraps a model failure into an AI_REQUEST_FAILED domain error.
// Context cancellation passes through untouched so callers can tell it apart.
func RequestFailed(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.NewDomainError(CodeRequestFailed, "The AI service request failed"), err)
}

// Disabled is wired when ai.enabled is false
type Disabled struct{}

// Generate always fails with AI_NOT_CONFIGURED
func (Disabled) Generate(context.Context, Prompt) (string, error) {
	return "", ErrNotConfigured
}

var _ TextGenerator = Disabled{}
