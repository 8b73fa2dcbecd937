package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/outvoice/backend/internal/application/trade"
)

// PurchaseOrderHandler serves supplier purchase orders
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *apptrade.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *apptrade.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes mounts the purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/send", h.Send)
}

// ListOrders godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, len(orders))
}

// GetByID godoc
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	order, err := h.orderService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Send godoc
// @Summary      Mark a draft purchase order as sent
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	order, err := h.orderService.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
