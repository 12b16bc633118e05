package handlers

import (
	"net/http"

	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusForError maps booking-domain error codes onto HTTP statuses so the
// UI can tell a taken slot from a missing trainer.
func statusForError(err error) int {
	switch booking.ErrorCode(err) {
	case booking.CodeInvalidFormat:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeSlotUnavailable, booking.CodeInconsistentState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	msg := "request failed"
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	utils.GetLogger().Warn(msg, zap.Int("status", status))
	c.JSON(status, utils.ErrorResponse{Message: msg, Code: booking.ErrorCode(err)})
}
