package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appinventory "github.com/outvoice/backend/internal/application/inventory"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	BaseHandler
	productService *appinventory.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *appinventory.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes mounts the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.Create)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        low_stock query bool false "Only products at or below their reorder point"
// @Success      200 {object} dto.Response
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	lowStock := false
	if raw := c.Query("low_stock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "low_stock must be true or false")
			return
		}
		lowStock = v
	}
	products, err := h.productService.List(c.Request.Context(), lowStock)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, products, len(products))
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body appinventory.SaveProductRequest true "Product"
// @Success      201 {object} dto.Response
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req appinventory.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body appinventory.SaveProductRequest true "Product"
// @Success      200 {object} dto.Response
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req appinventory.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
