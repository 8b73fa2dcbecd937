package handler

import (
	"github.com/gin-gonic/gin"
	appoperations "github.com/outvoice/backend/internal/application/operations"
)

// StaffHandler serves the staff list
type StaffHandler struct {
	BaseHandler
	staffService *appoperations.StaffService
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService *appoperations.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// RegisterRoutes mounts the staff routes
func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/staff", h.ListStaff)
	rg.POST("/staff", h.Create)
}

// ListStaff godoc
// @Summary      List staff
// @Tags         staff
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, staff, len(staff))
}

// Create godoc
// @Summary      Add a staff member
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body appoperations.CreateStaffRequest true "Staff member"
// @Success      201 {object} dto.Response
// @Router       /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req appoperations.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	member, err := h.staffService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}
