package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/outvoice/backend/internal/application/billing"
	apptrade "github.com/outvoice/backend/internal/application/trade"
	"github.com/outvoice/backend/internal/infrastructure/export"
)

// InvoiceHandler serves invoices, their payment and their print view
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
	orderService   *apptrade.PurchaseOrderService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService, orderService *apptrade.PurchaseOrderService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		orderService:   orderService,
	}
}

// RegisterRoutes mounts the invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.GET("", h.ListInvoices)
	invoices.POST("", h.Save)
	invoices.GET("/:id", h.GetByID)
	invoices.PUT("/:id", h.Replace)
	invoices.POST("/:id/pay", h.MarkAsPaid)
	invoices.POST("/:id/purchase-order", h.GeneratePurchaseOrder)
	invoices.POST("/:id/payment", h.InitiatePayment)
	invoices.GET("/:id/print", h.Print)
}

// ListInvoices godoc
// @Summary      List invoices
// @Description  Newest first. Status is the effective status, so past-due pending invoices read Overdue.
// @Tags         invoices
// @Produce      json
// @Param        status query string false "Draft, Pending, Paid, Overdue or Partial"
// @Param        client_id query string false "Client ID"
// @Success      200 {object} dto.Response
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filter appbilling.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	invoices, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, invoices, len(invoices))
}

// Save godoc
// @Summary      Create an invoice, or replace it when the body carries an id
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body appbilling.SaveInvoiceRequest true "Invoice"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) Save(c *gin.Context) {
	var req appbilling.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.save(c, req)
}

// Replace godoc
// @Summary      Replace an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body appbilling.SaveInvoiceRequest true "Invoice"
// @Success      200 {object} dto.Response
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Replace(c *gin.Context) {
	var req appbilling.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ID = c.Param("id")
	h.save(c, req)
}

func (h *InvoiceHandler) save(c *gin.Context, req appbilling.SaveInvoiceRequest) {
	creating := req.ID == ""
	inv, err := h.invoiceService.Save(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if creating {
		h.Created(c, inv)
		return
	}
	h.Success(c, inv)
}

// GetByID godoc
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	inv, err := h.invoiceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// MarkAsPaid godoc
// @Summary      Record a full or part payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body appbilling.MarkPaidRequest false "Payment method and optional amount"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkAsPaid(c *gin.Context) {
	var req appbilling.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	inv, err := h.invoiceService.MarkAsPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// GeneratePurchaseOrder godoc
// @Summary      Raise a purchase order for the stock an invoice is short of
// @Description  Answers generated=false when every product on the invoice is covered.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response
// @Router       /invoices/{id}/purchase-order [post]
func (h *InvoiceHandler) GeneratePurchaseOrder(c *gin.Context) {
	result, err := h.orderService.GenerateForInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Generated {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// InitiatePayment godoc
// @Summary      Build the gateway instruction for paying an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /invoices/{id}/payment [post]
func (h *InvoiceHandler) InitiatePayment(c *gin.Context) {
	instruction, err := h.invoiceService.InitiatePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, instruction)
}

// Print godoc
// @Summary      Render the invoice for printing
// @Tags         invoices
// @Produce      html
// @Param        id path string true "Invoice ID"
// @Param        format query string false "html (default) or pdf"
// @Success      200 {file} file
// @Failure      503 {object} dto.Response
// @Router       /invoices/{id}/print [get]
func (h *InvoiceHandler) Print(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"), export.FormatHTML)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	file, err := h.invoiceService.Print(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, file.Name, file.ContentType, file.Data, format == export.FormatHTML)
}
