package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/application/assistant"
	"github.com/outvoice/backend/internal/infrastructure/ai"
)

// AssistantHandler serves the AI tools. Every body accepts an optional
// surface_key; a newer call on the same key supersedes an older one, which
// then answers 409 STALE_REQUEST.
type AssistantHandler struct {
	BaseHandler
	assistant *assistant.Service
	guard     []gin.HandlerFunc
}

// NewAssistantHandler creates a new AssistantHandler. Guard middleware (rate
// limiting) wraps every AI route.
func NewAssistantHandler(svc *assistant.Service, guard ...gin.HandlerFunc) *AssistantHandler {
	return &AssistantHandler{assistant: svc, guard: guard}
}

// RegisterRoutes mounts the AI routes
func (h *AssistantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tools := rg.Group("/ai", h.guard...)
	tools.POST("/invoice-summary", h.InvoiceSummary)
	tools.POST("/ask", h.Ask)
	tools.POST("/draft-invoice", h.DraftInvoice)
	tools.POST("/messages", h.DraftMessage)
	tools.POST("/documents", h.DraftDocument)
	tools.POST("/stock-forecast", h.StockForecast)
	tools.POST("/company-info", h.CompanyInfo)
}

// SurfaceRequest is the body of AI tools that take no other input
type SurfaceRequest struct {
	SurfaceKey string `json:"surface_key"`
}

// InvoiceSummary godoc
// @Summary      One-sentence summary of invoice line items
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body assistant.SummaryRequest true "Line items"
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /ai/invoice-summary [post]
func (h *AssistantHandler) InvoiceSummary(c *gin.Context) {
	var req assistant.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.assistant.InvoiceSummary(c.Request.Context(), req))
}

// Ask godoc
// @Summary      Ask a question about invoices and clients
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body assistant.AskRequest true "Question"
// @Success      200 {object} dto.Response
// @Router       /ai/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req assistant.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.assistant.Ask(c.Request.Context(), req))
}

// DraftInvoice godoc
// @Summary      Extract an invoice draft from free text
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body assistant.DraftInvoiceRequest true "Text"
// @Success      200 {object} dto.Response
// @Router       /ai/draft-invoice [post]
func (h *AssistantHandler) DraftInvoice(c *gin.Context) {
	var req assistant.DraftInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.assistant.DraftInvoice(c.Request.Context(), req))
}

// DraftMessage godoc
// @Summary      Draft a reminder, quote follow-up or thank-you email
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body assistant.MessageRequest true "Message"
// @Success      200 {object} dto.Response
// @Router       /ai/messages [post]
func (h *AssistantHandler) DraftMessage(c *gin.Context) {
	var req assistant.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.assistant.DraftMessage(c.Request.Context(), req))
}

// DraftDocument godoc
// @Summary      Draft a contract, terms, delivery note or public officer letter
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body assistant.DocumentRequest true "Document"
// @Success      200 {object} dto.Response
// @Router       /ai/documents [post]
func (h *AssistantHandler) DraftDocument(c *gin.Context) {
	var req assistant.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.assistant.DraftDocument(c.Request.Context(), req))
}

// StockForecast godoc
// @Summary      Narrative forecast of low stock
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body SurfaceRequest false "Surface"
// @Success      200 {object} dto.Response
// @Router       /ai/stock-forecast [post]
func (h *AssistantHandler) StockForecast(c *gin.Context) {
	var req SurfaceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	h.respond(c)(h.assistant.StockForecast(c.Request.Context(), req.SurfaceKey))
}

// CompanyInfo godoc
// @Summary      Read company details off a registration document
// @Tags         ai
// @Accept       multipart/form-data
// @Produce      json
// @Param        document formData file true "Registration document image"
// @Param        surface_key formData string false "UI surface issuing the call"
// @Success      200 {object} dto.Response
// @Router       /ai/company-info [post]
func (h *AssistantHandler) CompanyInfo(c *gin.Context) {
	doc, err := readUpload(c, "document")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c)(h.assistant.CompanyInfo(c.Request.Context(), c.PostForm("surface_key"),
		ai.Image{MimeType: doc.ContentType, Data: doc.Data}))
}

func (h *AssistantHandler) respond(c *gin.Context) func(any, error) {
	return func(data any, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, data)
	}
}
