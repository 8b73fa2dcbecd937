package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/outvoice/backend/internal/application/document"
	appoperations "github.com/outvoice/backend/internal/application/operations"
	appportal "github.com/outvoice/backend/internal/application/portal"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
)

// PortalHandler serves the client-facing portal. Every route but login runs
// behind the session middleware and acts on the signed-in client only.
type PortalHandler struct {
	BaseHandler
	portal     *appportal.Service
	session    gin.HandlerFunc
	loginGuard []gin.HandlerFunc
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(portal *appportal.Service, session gin.HandlerFunc, loginGuard ...gin.HandlerFunc) *PortalHandler {
	return &PortalHandler{
		portal:     portal,
		session:    session,
		loginGuard: loginGuard,
	}
}

// RegisterRoutes mounts the portal routes
func (h *PortalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	portal := rg.Group("/portal")
	login := append(append([]gin.HandlerFunc{}, h.loginGuard...), h.Login)
	portal.POST("/login", login...)

	signedIn := portal.Group("", h.session)
	signedIn.POST("/logout", h.Logout)
	signedIn.GET("/overview", h.Overview)
	signedIn.POST("/quotes/:id/approve", h.ApproveQuote)
	signedIn.POST("/files", h.UploadKyc)
	signedIn.POST("/appointments", h.RequestAppointment)
}

// Login godoc
// @Summary      Open a portal session for a client
// @Description  The client id is not verified against any secret.
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        request body appportal.LoginRequest true "Client"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /portal/login [post]
func (h *PortalHandler) Login(c *gin.Context) {
	var req appportal.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	session, err := h.portal.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Logout godoc
// @Summary      Close the current portal session
// @Tags         portal
// @Security     BearerAuth
// @Success      204
// @Router       /portal/logout [post]
func (h *PortalHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetPortalClaims(c)
	if !ok {
		h.Unauthorized(c, "No portal session")
		return
	}
	if err := h.portal.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Overview godoc
// @Summary      The signed-in client's invoices, quotes and files
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response
// @Router       /portal/overview [get]
func (h *PortalHandler) Overview(c *gin.Context) {
	overview, err := h.portal.Overview(c.Request.Context(), middleware.GetPortalClientID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// ApproveQuote godoc
// @Summary      Accept one of the client's sent quotes
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Quote ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /portal/quotes/{id}/approve [post]
func (h *PortalHandler) ApproveQuote(c *gin.Context) {
	quote, err := h.portal.ApproveQuote(c.Request.Context(), middleware.GetPortalClientID(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// UploadKyc godoc
// @Summary      Upload a KYC document
// @Tags         portal
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Document"
// @Success      201 {object} dto.Response
// @Router       /portal/files [post]
func (h *PortalHandler) UploadKyc(c *gin.Context) {
	file, err := readUpload(c, "file")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := h.portal.UploadKyc(c.Request.Context(), middleware.GetPortalClientID(c), appdocument.UploadFileRequest{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RequestAppointment godoc
// @Summary      Ask for an appointment
// @Tags         portal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body appoperations.RequestAppointmentRequest true "Date and time"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /portal/appointments [post]
func (h *PortalHandler) RequestAppointment(c *gin.Context) {
	var req appoperations.RequestAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	appt, err := h.portal.RequestAppointment(c.Request.Context(), middleware.GetPortalClientID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appt)
}
