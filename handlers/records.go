package handlers

import (
	"errors"
	"net/http"
	"time"

	"fitbook/database/repository"
	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler exposes post-session feedback attached to bookings.
type ReviewHandler struct {
	svc      booking.BookingService
	reviews  repository.ReviewRepository
	trainers repository.TrainerRepository
}

func NewReviewHandler(svc booking.BookingService, reviews repository.ReviewRepository, trainers repository.TrainerRepository) *ReviewHandler {
	return &ReviewHandler{svc: svc, reviews: reviews, trainers: trainers}
}

// CreateReview accepts feedback for a completed session and folds the
// rating into the trainer's aggregate.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var body struct {
		Rating int    `json:"rating" binding:"required"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "rating is required", err.Error())
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		utils.JSONError(c, http.StatusBadRequest, "rating must be 1 through 5", "")
		return
	}

	b, err := h.svc.GetBooking(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if b.State != models.BookingCompleted {
		abortWithError(c, booking.NewInconsistentStateError(
			"only completed sessions can be reviewed"))
		return
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		Rating:    body.Rating,
		Text:      body.Text,
		CreatedAt: time.Now(),
	}
	if err := h.reviews.Create(review); err != nil {
		abortWithError(c, err)
		return
	}
	h.updateTrainerRating(b.TrainerID, body.Rating)
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.ListByBooking(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// updateTrainerRating folds one new rating into the trainer's running
// average. Losing the update on a repo error only skews the aggregate, so
// the review itself is never rolled back.
func (h *ReviewHandler) updateTrainerRating(trainerID string, rating int) {
	trainer, err := h.trainers.GetByID(trainerID)
	if err != nil {
		return
	}
	total := trainer.Rating*float64(trainer.ReviewCount) + float64(rating)
	trainer.ReviewCount++
	trainer.Rating = total / float64(trainer.ReviewCount)
	_ = h.trainers.Update(trainer)
}

// SettingsHandler serves the venue-wide presentation defaults.
type SettingsHandler struct {
	settings repository.SettingsRepository
}

func NewSettingsHandler(settings repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid settings", err.Error())
		return
	}
	if err := h.settings.Set(&settings); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
