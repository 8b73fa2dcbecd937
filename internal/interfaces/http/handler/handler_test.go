package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/outvoice/backend/internal/application/billing"
	appdocument "github.com/outvoice/backend/internal/application/document"
	appoperations "github.com/outvoice/backend/internal/application/operations"
	apppartner "github.com/outvoice/backend/internal/application/partner"
	appportal "github.com/outvoice/backend/internal/application/portal"
	apptrade "github.com/outvoice/backend/internal/application/trade"
	"github.com/outvoice/backend/internal/infrastructure/auth"
	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/outvoice/backend/internal/infrastructure/export"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	state := memory.NewState()
	objects := storage.NewMemoryStorage()

	clients := apppartner.NewClientService(state.Clients)
	invoices := appbilling.NewInvoiceService(state.Invoices, state.Clients, state.Profile)
	quotes := appbilling.NewQuoteService(state.Quotes, state.Clients, state.Profile)
	orders := apptrade.NewPurchaseOrderService(state.PurchaseOrders, state.Invoices, state.Products)
	files := appdocument.NewFileService(state.Files, state.Clients, objects)
	appointments := appoperations.NewAppointmentService(state.Appointments, state.Clients)

	sessions, err := auth.NewJWTService(config.PortalConfig{JWTSecret: "handler-test-secret", TokenTTL: time.Hour, Issuer: "outvoice"})
	require.NoError(t, err)
	revoked := auth.NewInMemoryTokenBlacklist()
	portal := appportal.NewService(clients, invoices, quotes, files, appointments, sessions, revoked)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	NewClientHandler(clients, nil).RegisterRoutes(api)
	NewInvoiceHandler(invoices, orders).RegisterRoutes(api)
	NewFileHandler(files).RegisterRoutes(api)
	NewPortalHandler(portal, middleware.PortalAuth(sessions, revoked)).RegisterRoutes(api)

	return &testAPI{t: t, engine: engine}
}

func (a *testAPI) do(method, path string, body any, header http.Header) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return a.serve(req)
}

func (a *testAPI) upload(path, field, name string, content []byte, values map[string]string, header http.Header) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile(field, name)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) (*httptest.ResponseRecorder, apiResponse) {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (a *testAPI) createClient(name string) apppartner.ClientResponse {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, "/api/v1/clients", map[string]any{
		"name":  name,
		"email": strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com",
	}, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var client apppartner.ClientResponse
	require.NoError(a.t, json.Unmarshal(resp.Data, &client))
	return client
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestInvoiceRoutes(t *testing.T) {
	api := newTestAPI(t)
	client := api.createClient("Acme Ltd")

	w, resp := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
		"client_id": client.ID,
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 2, "rate": 50},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created appbilling.InvoiceResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.InvoiceNumber)
	assert.Equal(t, "Draft", created.Status)
	assert.Equal(t, "100", created.Subtotal.String())
	assert.Equal(t, "Acme Ltd", created.Client.Name)

	w, resp = api.do(http.MethodPut, "/api/v1/invoices/"+created.ID, map[string]any{
		"client_id": client.ID,
		"notes":     "Net 30",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 3, "rate": 50},
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replaced appbilling.InvoiceResponse
	require.NoError(t, json.Unmarshal(resp.Data, &replaced))
	assert.Equal(t, created.ID, replaced.ID)
	assert.Equal(t, created.InvoiceNumber, replaced.InvoiceNumber)
	assert.Equal(t, "150", replaced.Subtotal.String())

	w, resp = api.do(http.MethodGet, "/api/v1/invoices?client_id="+client.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)

	w, resp = api.do(http.MethodGet, "/api/v1/invoices/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestInvoiceRoutes_Errors(t *testing.T) {
	api := newTestAPI(t)

	t.Run("unknown invoice", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/invoices/missing", nil,
			http.Header{middleware.RequestIDHeader: []string{"req-1"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
	})

	t.Run("unknown client", func(t *testing.T) {
		w, resp := api.do(http.MethodPost, "/api/v1/invoices", map[string]any{
			"client_id": "nobody",
			"items":     []map[string]any{{"description": "x", "quantity": 1, "rate": 1}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CLIENT", resp.Error.Code)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		w, resp := api.do(http.MethodGet, "/api/v1/invoices?status=Lost", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w, _ := api.serve(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFileRoutes(t *testing.T) {
	api := newTestAPI(t)
	client := api.createClient("Globex")

	w, resp := api.upload("/api/v1/files", "file", "contract.txt", []byte("signed"),
		map[string]string{"client_id": client.ID, "tag": "Contract"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var file appdocument.FileResponse
	require.NoError(t, json.Unmarshal(resp.Data, &file))
	assert.Equal(t, "contract.txt", file.Name)
	assert.Equal(t, "Contract", file.Tag)
	assert.Equal(t, int64(6), file.Size)

	w, _ = api.do(http.MethodGet, "/api/v1/files/"+file.ID+"/download", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed", w.Body.String())
	assert.Equal(t, `attachment; filename="contract.txt"`, w.Header().Get("Content-Disposition"))

	w, resp = api.do(http.MethodGet, "/api/v1/files/"+file.ID+"/link", nil, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DOWNLOAD_LINK_UNAVAILABLE", resp.Error.Code)

	w, resp = api.do(http.MethodGet, "/api/v1/files?client_id="+client.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestFileRoutes_UploadErrors(t *testing.T) {
	api := newTestAPI(t)
	client := api.createClient("Initech")

	t.Run("missing file field", func(t *testing.T) {
		w, resp := api.upload("/api/v1/files", "attachment", "a.txt", []byte("x"),
			map[string]string{"client_id": client.ID}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MISSING_FIELD", resp.Error.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		w, resp := api.do(http.MethodPost, "/api/v1/files", map[string]any{"client_id": client.ID}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("invalid tag", func(t *testing.T) {
		w, resp := api.upload("/api/v1/files", "file", "a.txt", []byte("x"),
			map[string]string{"client_id": client.ID, "tag": "Secret"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_TAG", resp.Error.Code)
	})
}

func TestPortalRoutes(t *testing.T) {
	api := newTestAPI(t)
	client := api.createClient("Acme Ltd")

	w, resp := api.do(http.MethodPost, "/api/v1/portal/login", map[string]any{"client_id": client.ID}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session auth.Session
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	require.NotEmpty(t, session.Token)

	w, resp = api.do(http.MethodGet, "/api/v1/portal/overview", nil, bearer(session.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview appportal.Overview
	require.NoError(t, json.Unmarshal(resp.Data, &overview))
	assert.Equal(t, client.ID, overview.Client.ID)

	w, resp = api.upload("/api/v1/portal/files", "file", "id.pdf", []byte("%PDF-1.4"), nil, bearer(session.Token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var kyc appdocument.FileResponse
	require.NoError(t, json.Unmarshal(resp.Data, &kyc))
	assert.Equal(t, "KYC", kyc.Tag)
	assert.Equal(t, client.ID, kyc.ClientID)

	w, resp = api.do(http.MethodGet, "/api/v1/clients/"+client.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated apppartner.ClientResponse
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "Submitted", updated.KycStatus)

	w, _ = api.do(http.MethodPost, "/api/v1/portal/logout", nil, bearer(session.Token))
	require.Equal(t, http.StatusNoContent, w.Code)

	w, resp = api.do(http.MethodGet, "/api/v1/portal/overview", nil, bearer(session.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TOKEN_REVOKED", resp.Error.Code)
}

func TestPortalRoutes_Errors(t *testing.T) {
	api := newTestAPI(t)

	w, resp := api.do(http.MethodPost, "/api/v1/portal/login", map[string]any{"client_id": "nobody"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CLIENT", resp.Error.Code)

	w, resp = api.do(http.MethodPost, "/api/v1/portal/login", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	w, resp = api.do(http.MethodGet, "/api/v1/portal/overview", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)
}

func TestHandleError_RenderErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&export.RenderError{Code: export.ErrCodeRenderTimeout, Message: "timed out"}, http.StatusGatewayTimeout, export.ErrCodeRenderTimeout},
		{&export.RenderError{Code: export.ErrCodeRenderFailed, Message: "boom"}, http.StatusInternalServerError, export.ErrCodeRenderFailed},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		engine := gin.New()
		engine.GET("/", func(c *gin.Context) {
			var h BaseHandler
			h.HandleError(c, tc.err)
		})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), tc.code)
	}
}

func TestAttachment(t *testing.T) {
	engine := gin.New()
	engine.GET("/inline", func(c *gin.Context) {
		var h BaseHandler
		h.Attachment(c, "INV-0001.html", "text/html; charset=utf-8", []byte("<p>hi</p>"), true)
	})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inline", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename="INV-0001.html"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "<p>hi</p>", w.Body.String())
}
