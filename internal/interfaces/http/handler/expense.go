package handler

import (
	"github.com/gin-gonic/gin"
	appfinance "github.com/outvoice/backend/internal/application/finance"
)

// ExpenseHandler serves expenses and scanned receipts
type ExpenseHandler struct {
	BaseHandler
	expenseService *appfinance.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *appfinance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes mounts the expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	expenses.GET("", h.ListExpenses)
	expenses.POST("", h.Create)
	expenses.POST("/receipt", h.ScanReceipt)
	expenses.GET("/:id/receipt", h.Receipt)
}

// ListExpenses godoc
// @Summary      List expenses with their total
// @Tags         expenses
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	list, err := h.expenseService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, list, len(list.Expenses))
}

// Create godoc
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body appfinance.CreateExpenseRequest true "Expense"
// @Success      201 {object} dto.Response
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req appfinance.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	expense, err := h.expenseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// ScanReceipt godoc
// @Summary      Record an expense from a receipt photo
// @Description  The assistant reads vendor, date and amount; the image is kept with the expense.
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Param        receipt formData file true "Receipt image"
// @Param        client_id formData string false "Client to bill the expense to"
// @Param        description formData string false "Description"
// @Param        surface_key formData string false "UI surface issuing the call"
// @Success      201 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /expenses/receipt [post]
func (h *ExpenseHandler) ScanReceipt(c *gin.Context) {
	file, err := readUpload(c, "receipt")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	expense, err := h.expenseService.ScanReceipt(c.Request.Context(), appfinance.ScanReceiptRequest{
		SurfaceKey:  c.PostForm("surface_key"),
		ClientID:    c.PostForm("client_id"),
		Description: c.PostForm("description"),
		FileName:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// Receipt godoc
// @Summary      Download the receipt image of an expense
// @Tags         expenses
// @Produce      octet-stream
// @Param        id path string true "Expense ID"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response
// @Router       /expenses/{id}/receipt [get]
func (h *ExpenseHandler) Receipt(c *gin.Context) {
	receipt, err := h.expenseService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, receipt.Name, receipt.ContentType, receipt.Data, true)
}
