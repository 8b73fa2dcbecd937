// Package handler holds the gin handlers of the Outvoice API. Handlers bind
// and validate requests, call one application service and write the standard
// response envelope.
package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/interfaces/http/dto"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a list with its length in meta
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindError answers a failed bind with the validation envelope
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError maps an error onto the envelope. Domain errors carry their own
// code and status; render failures are upstream problems; anything else is
// logged and hidden behind INTERNAL_ERROR.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	var renderErr *export.RenderError
	if errors.As(err, &renderErr) {
		logger.L(c.Request.Context()).Error("render failed",
			zap.String("code", renderErr.Code), zap.Error(err))
		status := http.StatusInternalServerError
		if renderErr.Code == export.ErrCodeRenderTimeout {
			status = http.StatusGatewayTimeout
		}
		h.Error(c, status, renderErr.Code, renderErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("request failed",
		zap.String("path", c.FullPath()), zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// Attachment writes a generated file. Inline files open in the browser
// instead of downloading.
func (h *BaseHandler) Attachment(c *gin.Context, name, contentType string, data []byte, inline bool) {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	c.Data(http.StatusOK, contentType, data)
}

// upload is one multipart file read into memory
type upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// readUpload reads the named multipart field
func readUpload(c *gin.Context, field string) (*upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, uploadError(err, field)
	}
	return readFileHeader(header)
}

func uploadError(err error, field string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errUploadTooLarge
	}
	if errors.Is(err, http.ErrMissingFile) {
		return shared.NewDomainError("MISSING_FIELD", fmt.Sprintf("Multipart field %q is required", field))
	}
	return shared.NewDomainError("BAD_REQUEST", "Request must be multipart/form-data")
}

var errUploadTooLarge = shared.NewDomainError(dto.ErrCodeTooLarge, "Uploaded file is too large")

func readFileHeader(header *multipart.FileHeader) (*upload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadTooLarge
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return &upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
