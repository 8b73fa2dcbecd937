package handler

import (
	"github.com/gin-gonic/gin"
	appoperations "github.com/outvoice/backend/internal/application/operations"
)

// AppointmentHandler serves the booking requests made through the portal
type AppointmentHandler struct {
	BaseHandler
	appointmentService *appoperations.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService *appoperations.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// RegisterRoutes mounts the appointment routes
func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	appts := rg.Group("/appointments")
	appts.GET("", h.ListAppointments)
	appts.POST("/:id/confirm", h.Confirm)
	appts.POST("/:id/cancel", h.Cancel)
}

// ListAppointments godoc
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Param        client_id query string false "Client ID"
// @Success      200 {object} dto.Response
// @Router       /appointments [get]
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	appts, err := h.appointmentService.List(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, appts, len(appts))
}

// Confirm godoc
// @Summary      Confirm a pending appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	appt, err := h.appointmentService.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}

// Cancel godoc
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appt, err := h.appointmentService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appt)
}
