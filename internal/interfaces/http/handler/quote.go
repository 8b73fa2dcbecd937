package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appbilling "github.com/outvoice/backend/internal/application/billing"
)

// QuoteHandler serves quotes and their conversion into invoices
type QuoteHandler struct {
	BaseHandler
	quoteService *appbilling.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *appbilling.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RegisterRoutes mounts the quote routes
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.Save)
	quotes.GET("/:id", h.GetByID)
	quotes.PUT("/:id", h.Replace)
	quotes.POST("/:id/send", h.Send)
	quotes.POST("/:id/decline", h.Decline)
	quotes.POST("/:id/convert", h.Convert)
}

// ListQuotes godoc
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        status query string false "Draft, Sent, Accepted or Declined"
// @Param        client_id query string false "Client ID"
// @Success      200 {object} dto.Response
// @Router       /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var filter appbilling.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	quotes, err := h.quoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, quotes, len(quotes))
}

// Save godoc
// @Summary      Create a quote, or replace it when the body carries an id
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body appbilling.SaveQuoteRequest true "Quote"
// @Success      201 {object} dto.Response
// @Router       /quotes [post]
func (h *QuoteHandler) Save(c *gin.Context) {
	var req appbilling.SaveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.save(c, req)
}

// Replace godoc
// @Summary      Replace a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        request body appbilling.SaveQuoteRequest true "Quote"
// @Success      200 {object} dto.Response
// @Router       /quotes/{id} [put]
func (h *QuoteHandler) Replace(c *gin.Context) {
	var req appbilling.SaveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ID = c.Param("id")
	h.save(c, req)
}

func (h *QuoteHandler) save(c *gin.Context, req appbilling.SaveQuoteRequest) {
	creating := req.ID == ""
	quote, err := h.quoteService.Save(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if creating {
		h.Created(c, quote)
		return
	}
	h.Success(c, quote)
}

// GetByID godoc
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	quote, err := h.quoteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Send godoc
// @Summary      Mark a draft quote as sent
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	h.transition(c, h.quoteService.Send)
}

// Decline godoc
// @Summary      Record that the client declined a sent quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /quotes/{id}/decline [post]
func (h *QuoteHandler) Decline(c *gin.Context) {
	h.transition(c, h.quoteService.Decline)
}

func (h *QuoteHandler) transition(c *gin.Context, move func(ctx context.Context, id string) (*appbilling.QuoteResponse, error)) {
	quote, err := move(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Convert godoc
// @Summary      Turn a quote into an unsaved invoice draft
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	draft, err := h.quoteService.Convert(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, draft)
}
