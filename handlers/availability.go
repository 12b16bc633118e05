package handlers

import (
	"net/http"

	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves resolved slot lists to the booking UI.
type AvailabilityHandler struct {
	svc booking.BookingService
}

func NewAvailabilityHandler(svc booking.BookingService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// GetSlots returns the ordered slot list for (trainer, product, date).
// An empty list is a normal answer, not an error.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	trainerID := c.Param("trainerID")
	productID := c.Query("productId")
	date := c.Query("date")
	if productID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "productId and date query parameters are required", "")
		return
	}

	slots, err := h.svc.Slots(trainerID, productID, date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
