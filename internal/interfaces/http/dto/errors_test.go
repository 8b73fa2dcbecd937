package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeMissingField, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeStaleRequest, http.StatusConflict},
		{ErrCodeAIRequestFailed, http.StatusBadGateway},
		{ErrCodeAINotConfigured, http.StatusServiceUnavailable},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeGatewayNotConfigured, http.StatusUnprocessableEntity},
		{ErrCodeDownloadUnavailable, http.StatusNotImplemented},
		// Prefix fallbacks
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_CLIENT", http.StatusBadRequest},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"INVALID_TOKEN", http.StatusUnauthorized},
		// Unknown code should return 500
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "client_id", Message: "This field is required"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	details := errInfo["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "client_id", details[0].(map[string]any)["field"])
}

func TestNewSuccessResponse(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 2}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, string(raw))
}

func TestNewListResponse(t *testing.T) {
	raw, err := json.Marshal(NewListResponse([]string{"a", "b"}, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":2}}`, string(raw))
}
