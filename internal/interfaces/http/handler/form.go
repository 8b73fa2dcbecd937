package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/outvoice/backend/internal/application/document"
)

// FormHandler serves custom intake forms and their submissions
type FormHandler struct {
	BaseHandler
	formService *appdocument.FormService
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(formService *appdocument.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// RegisterRoutes mounts the form routes
func (h *FormHandler) RegisterRoutes(rg *gin.RouterGroup) {
	forms := rg.Group("/forms")
	forms.GET("", h.ListForms)
	forms.POST("", h.Create)
	forms.GET("/:id", h.GetByID)
	forms.PUT("/:id", h.Update)
	forms.POST("/:id/submissions", h.Submit)
	forms.GET("/:id/submissions", h.Submissions)
}

// ListForms godoc
// @Summary      List forms
// @Tags         forms
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /forms [get]
func (h *FormHandler) ListForms(c *gin.Context) {
	forms, err := h.formService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, forms, len(forms))
}

// Create godoc
// @Summary      Create a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body appdocument.SaveFormRequest true "Form"
// @Success      201 {object} dto.Response
// @Router       /forms [post]
func (h *FormHandler) Create(c *gin.Context) {
	var req appdocument.SaveFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	form, err := h.formService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, form)
}

// GetByID godoc
// @Summary      Get a form
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200 {object} dto.Response
// @Router       /forms/{id} [get]
func (h *FormHandler) GetByID(c *gin.Context) {
	form, err := h.formService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, form)
}

// Update godoc
// @Summary      Replace a form's title and fields
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id path string true "Form ID"
// @Param        request body appdocument.SaveFormRequest true "Form"
// @Success      200 {object} dto.Response
// @Router       /forms/{id} [put]
func (h *FormHandler) Update(c *gin.Context) {
	var req appdocument.SaveFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	form, err := h.formService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, form)
}

// Submit godoc
// @Summary      Submit answers to a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id path string true "Form ID"
// @Param        request body appdocument.SubmitFormRequest true "Answers keyed by field id"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /forms/{id}/submissions [post]
func (h *FormHandler) Submit(c *gin.Context) {
	var req appdocument.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	sub, err := h.formService.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// Submissions godoc
// @Summary      List the submissions of a form
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200 {object} dto.Response
// @Router       /forms/{id}/submissions [get]
func (h *FormHandler) Submissions(c *gin.Context) {
	subs, err := h.formService.Submissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, subs, len(subs))
}
