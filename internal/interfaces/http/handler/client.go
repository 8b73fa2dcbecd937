package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/outvoice/backend/internal/application/assistant"
	apppartner "github.com/outvoice/backend/internal/application/partner"
)

// ClientHandler serves the client book and its KYC workflow
type ClientHandler struct {
	BaseHandler
	clientService *apppartner.ClientService
	assistant     *assistant.Service
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *apppartner.ClientService, assistant *assistant.Service) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		assistant:     assistant,
	}
}

// RegisterRoutes mounts the client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", h.List)
	clients.POST("", h.Create)
	clients.GET("/:id", h.GetByID)
	clients.PUT("/:id", h.Update)
	clients.PATCH("/:id/kyc", h.SetKycStatus)
	clients.POST("/:id/kyc-request-email", h.KycRequestEmail)
}

// KycEmailRequest optionally tags the AI call with a UI surface
type KycEmailRequest struct {
	SurfaceKey string `json:"surface_key"`
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, clients, len(clients))
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body apppartner.CreateClientRequest true "Client"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req apppartner.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetByID godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	client, err := h.clientService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Update godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body apppartner.UpdateClientRequest true "Client"
// @Success      200 {object} dto.Response
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	var req apppartner.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	client, err := h.clientService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// SetKycStatus godoc
// @Summary      Record a KYC review outcome
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body apppartner.SetKycStatusRequest true "Status"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /clients/{id}/kyc [patch]
func (h *ClientHandler) SetKycStatus(c *gin.Context) {
	var req apppartner.SetKycStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	client, err := h.clientService.SetKycStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// KycRequestEmail godoc
// @Summary      Draft an email asking the client for KYC documents
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /clients/{id}/kyc-request-email [post]
func (h *ClientHandler) KycRequestEmail(c *gin.Context) {
	var req KycEmailRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	text, err := h.assistant.KycRequestEmail(c.Request.Context(), c.Param("id"), req.SurfaceKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, text)
}
