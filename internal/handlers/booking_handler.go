package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	ucAppointment "github.com/BruksfildServices01/carelink/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	book         *ucAppointment.BookAppointment
	availability *ucAppointment.GetAvailability
	byEmail      *ucAppointment.ListByEmail
}

func NewBookingHandler(
	book *ucAppointment.BookAppointment,
	availability *ucAppointment.GetAvailability,
	byEmail *ucAppointment.ListByEmail,
) *BookingHandler {
	return &BookingHandler{
		book:         book,
		availability: availability,
		byEmail:      byEmail,
	}
}

type bookingPayload struct {
	domain.BookingRequest
	PaymentMethod string `json:"payment_method"`
}

// ======================================================
// POST /api/public/appointments/quote
// ======================================================

func (h *BookingHandler) Quote(c *gin.Context) {
	var req bookingPayload
	if !bindJSON(c, &req) {
		return
	}

	q, err := h.book.Quote(c.Request.Context(), req.BookingRequest)
	if err != nil {
		respondError(c, err, "booking_failed")
		return
	}

	c.JSON(http.StatusOK, q)
}

// ======================================================
// POST /api/public/appointments
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingPayload
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		Request:       req.BookingRequest,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err, "booking_failed")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// GET /api/public/appointments?email=
// ======================================================

func (h *BookingHandler) ListByEmail(c *gin.Context) {
	apps, err := h.byEmail.Execute(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err, "appointments_list_failed")
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ======================================================
// GET /api/public/doctors/:id/availability?date=
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	date := c.Query("date")

	slots, err := h.availability.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": c.Param("id"),
		"date":      date,
		"slots":     slots,
	})
}
