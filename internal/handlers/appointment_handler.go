package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/carelink/internal/usecase/appointment"
)

type AppointmentHandler struct {
	list   *ucAppointment.ListAppointments
	update *ucAppointment.UpdateStatus
}

func NewAppointmentHandler(
	list *ucAppointment.ListAppointments,
	update *ucAppointment.UpdateStatus,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:   list,
		update: update,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GET /api/admin/appointments?date=&status=
func (h *AppointmentHandler) List(c *gin.Context) {
	apps, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, err, "appointments_list_failed")
		return
	}

	c.JSON(http.StatusOK, apps)
}

// PATCH /api/admin/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		AppointmentID: c.Param("id"),
		Status:        req.Status,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err, "appointment_update_failed")
		return
	}

	c.JSON(http.StatusOK, ap)
}
