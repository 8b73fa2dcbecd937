package handler

import (
	"github.com/gin-gonic/gin"
	appoperations "github.com/outvoice/backend/internal/application/operations"
)

// TimeEntryHandler serves billable time
type TimeEntryHandler struct {
	BaseHandler
	entryService *appoperations.TimeEntryService
}

// NewTimeEntryHandler creates a new TimeEntryHandler
func NewTimeEntryHandler(entryService *appoperations.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entryService: entryService}
}

// RegisterRoutes mounts the time entry routes
func (h *TimeEntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/time-entries")
	entries.GET("", h.ListEntries)
	entries.POST("", h.Create)
	entries.POST("/invoice-draft", h.InvoiceDraft)
}

// ListEntries godoc
// @Summary      List unbilled time entries
// @Tags         time-entries
// @Produce      json
// @Param        client_id query string false "Client ID"
// @Success      200 {object} dto.Response
// @Router       /time-entries [get]
func (h *TimeEntryHandler) ListEntries(c *gin.Context) {
	entries, err := h.entryService.List(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, entries, len(entries))
}

// Create godoc
// @Summary      Log time against a client
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Param        request body appoperations.CreateTimeEntryRequest true "Time entry"
// @Success      201 {object} dto.Response
// @Router       /time-entries [post]
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req appoperations.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	entry, err := h.entryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// InvoiceDraft godoc
// @Summary      Bill selected entries
// @Description  Returns an unsaved invoice draft and removes the billed entries.
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Param        request body appoperations.TimeEntryInvoiceRequest true "Entry ids"
// @Success      200 {object} dto.Response
// @Router       /time-entries/invoice-draft [post]
func (h *TimeEntryHandler) InvoiceDraft(c *gin.Context) {
	var req appoperations.TimeEntryInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	draft, err := h.entryService.InvoiceDraft(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, draft)
}
