package handlers

import (
	"net/http"

	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking creation and lifecycle transitions.
type BookingHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// CreateBooking books a slot for a client. The service re-validates the
// slot; a stale slot list from the UI surfaces as a 409.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}

	result, err := h.svc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.svc.GetBooking(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingByCode serves the desk search surface.
func (h *BookingHandler) GetBookingByCode(c *gin.Context) {
	b, err := h.svc.GetBookingByCode(c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) GetPaymentIntent(c *gin.Context) {
	intent, err := h.svc.GetPaymentIntent(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// ConfirmBooking applies the confirmation transition immediately, the same
// path the deferred worker takes.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.applyTransition(c, func(id string) error { return h.svc.ConfirmBooking(id) })
}

// CheckInBooking marks arrival. Method defaults to desk entry; the QR
// scanner and trainer views pass their own.
func (h *BookingHandler) CheckInBooking(c *gin.Context) {
	var body struct {
		Method string `json:"method"`
	}
	// Body is optional.
	_ = c.ShouldBindJSON(&body)
	if body.Method == "" {
		body.Method = "desk_code"
	}

	checkIn, err := h.svc.CheckInBooking(c.Param("id"), body.Method)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkIn)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, func(id string) error { return h.svc.CompleteBooking(id) })
}

// CancelBooking cancels on behalf of the party named in the body.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var body struct {
		By string `json:"by" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || (body.By != "client" && body.By != "trainer") {
		utils.JSONError(c, http.StatusBadRequest, `"by" must be "client" or "trainer"`, "")
		return
	}
	h.applyTransition(c, func(id string) error {
		return h.svc.CancelBooking(id, body.By == "trainer")
	})
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, func(id string) error { return h.svc.MarkNoShow(id) })
}

// ListClientBookings returns a client's bookings for the "my sessions" view.
func (h *BookingHandler) ListClientBookings(c *gin.Context) {
	bookings, err := h.svc.ListClientBookings(c.Param("clientID"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListTrainerBookings returns a trainer's bookings for one date.
func (h *BookingHandler) ListTrainerBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required", "")
		return
	}
	bookings, err := h.svc.ListTrainerBookings(c.Param("id"), date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) applyTransition(c *gin.Context, fn func(id string) error) {
	id := c.Param("id")
	if err := fn(id); err != nil {
		abortWithError(c, err)
		return
	}
	b, err := h.svc.GetBooking(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
