package handler

import (
	"github.com/gin-gonic/gin"
	appcompany "github.com/outvoice/backend/internal/application/company"
)

// SettingsHandler serves the company profile
type SettingsHandler struct {
	BaseHandler
	profileService *appcompany.ProfileService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(profileService *appcompany.ProfileService) *SettingsHandler {
	return &SettingsHandler{profileService: profileService}
}

// RegisterRoutes mounts the settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	settings.GET("/company", h.GetCompany)
	settings.PUT("/company", h.UpdateCompany)
}

// GetCompany godoc
// @Summary      Get the company profile
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /settings/company [get]
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateCompany godoc
// @Summary      Replace the company profile
// @Description  Gateway secrets left empty keep their stored value
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body appcompany.UpdateProfileRequest true "Company profile"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /settings/company [put]
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	var req appcompany.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	profile, err := h.profileService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
