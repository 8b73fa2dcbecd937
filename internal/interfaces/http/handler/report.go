package handler

import (
	"github.com/gin-gonic/gin"
	appreport "github.com/outvoice/backend/internal/application/report"
)

// ReportHandler serves the dashboard and the sales report
type ReportHandler struct {
	BaseHandler
	reportService *appreport.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *appreport.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes mounts the report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.GET("/dashboard", h.Dashboard)
	reports.GET("/sales", h.Sales)
	reports.GET("/sales/export", h.ExportSales)
}

// Dashboard godoc
// @Summary      Dashboard figures, revenue chart and to-do feed
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Sales godoc
// @Summary      Invoices issued in a date range
// @Tags         reports
// @Produce      json
// @Param        start query string true "YYYY-MM-DD"
// @Param        end query string true "YYYY-MM-DD"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var req appreport.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	sales, err := h.reportService.Sales(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// ExportSales godoc
// @Summary      Download the sales report
// @Tags         reports
// @Produce      text/csv
// @Param        start query string true "YYYY-MM-DD"
// @Param        end query string true "YYYY-MM-DD"
// @Param        format query string false "csv (default), html or pdf"
// @Success      200 {file} file
// @Failure      400 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *gin.Context) {
	var req appreport.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	file, err := h.reportService.ExportSales(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, file.Name, file.ContentType, file.Data, false)
}
