package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"fitbook/database/repository"
	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrainerHandler exposes the trainer-side management surface: weekly rules,
// blackout dates, exception windows and the product catalogue.
type TrainerHandler struct {
	Trainers   repository.TrainerRepository
	Products   repository.ProductRepository
	Exceptions repository.ExceptionRepository
}

func NewTrainerHandler(trainers repository.TrainerRepository, products repository.ProductRepository, exceptions repository.ExceptionRepository) *TrainerHandler {
	return &TrainerHandler{Trainers: trainers, Products: products, Exceptions: exceptions}
}

func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.Trainers.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}

func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// --- availability rules ---

// AddRule appends a weekly rule to the trainer. Overlap with existing rules
// is allowed; the resolver expands each rule independently.
func (h *TrainerHandler) AddRule(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	var rule models.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability rule", err.Error())
		return
	}
	if err := validateRule(&rule); err != nil {
		abortWithError(c, err)
		return
	}
	rule.ID = uuid.New().String()

	trainer.Rules = append(trainer.Rules, rule)
	if err := h.Trainers.Update(trainer); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *TrainerHandler) UpdateRule(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	var rule models.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability rule", err.Error())
		return
	}
	rule.ID = c.Param("ruleID")
	if err := validateRule(&rule); err != nil {
		abortWithError(c, err)
		return
	}

	for i := range trainer.Rules {
		if trainer.Rules[i].ID == rule.ID {
			trainer.Rules[i] = rule
			if err := h.Trainers.Update(trainer); err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, rule)
			return
		}
	}
	utils.JSONError(c, http.StatusNotFound, fmt.Sprintf("rule %s not found", rule.ID), "")
}

func (h *TrainerHandler) DeleteRule(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	ruleID := c.Param("ruleID")
	for i := range trainer.Rules {
		if trainer.Rules[i].ID == ruleID {
			trainer.Rules = append(trainer.Rules[:i], trainer.Rules[i+1:]...)
			if err := h.Trainers.Update(trainer); err != nil {
				abortWithError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
			return
		}
	}
	utils.JSONError(c, http.StatusNotFound, fmt.Sprintf("rule %s not found", ruleID), "")
}

// validateRule rejects malformed times and inverted or degenerate windows.
func validateRule(rule *models.AvailabilityRule) error {
	if rule.Weekday < 1 || rule.Weekday > 7 {
		return booking.NewInvalidFormatError("weekday must be 1 (Monday) through 7 (Sunday)")
	}
	start, err := booking.ParseTime(rule.Start)
	if err != nil {
		return err
	}
	end, err := booking.ParseTime(rule.End)
	if err != nil {
		return err
	}
	if start >= end {
		return booking.NewInvalidFormatError("rule start must be before rule end")
	}
	if rule.SlotSizeMin <= 0 {
		return booking.NewInvalidFormatError("slotSizeMin must be positive")
	}
	if rule.BufferBeforeMin < 0 || rule.BufferAfterMin < 0 {
		return booking.NewInvalidFormatError("buffers must not be negative")
	}
	return nil
}

// --- blackout dates ---

func (h *TrainerHandler) AddBlackout(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	var body struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date is required", err.Error())
		return
	}
	if trainer.IsBlackedOut(body.Date) {
		c.JSON(http.StatusOK, gin.H{"blackoutDates": trainer.BlackoutDates})
		return
	}

	trainer.BlackoutDates = append(trainer.BlackoutDates, body.Date)
	if err := h.Trainers.Update(trainer); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blackoutDates": trainer.BlackoutDates})
}

func (h *TrainerHandler) RemoveBlackout(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	date := c.Param("date")
	for i, d := range trainer.BlackoutDates {
		if d == date {
			trainer.BlackoutDates = append(trainer.BlackoutDates[:i], trainer.BlackoutDates[i+1:]...)
			if err := h.Trainers.Update(trainer); err != nil {
				abortWithError(c, err)
				return
			}
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"blackoutDates": trainer.BlackoutDates})
}

// --- exception windows ---

func (h *TrainerHandler) ListExceptions(c *gin.Context) {
	windows, err := h.Exceptions.ListByTrainer(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": windows})
}

func (h *TrainerHandler) AddException(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	var window models.ExceptionWindow
	if err := c.ShouldBindJSON(&window); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid exception window", err.Error())
		return
	}
	if window.Type != models.ExceptionClosed && window.Type != models.ExceptionExtended {
		utils.JSONError(c, http.StatusBadRequest, `type must be "closed" or "extended"`, "")
		return
	}
	if _, err := booking.ParseTime(window.Start); err != nil {
		abortWithError(c, err)
		return
	}
	if _, err := booking.ParseTime(window.End); err != nil {
		abortWithError(c, err)
		return
	}

	window.ID = uuid.New().String()
	window.TrainerID = trainer.ID
	if err := h.Exceptions.Create(&window); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, window)
}

func (h *TrainerHandler) DeleteException(c *gin.Context) {
	if err := h.Exceptions.Delete(c.Param("exceptionID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- products ---

func (h *TrainerHandler) ListProducts(c *gin.Context) {
	products, err := h.Products.ListByTrainer(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *TrainerHandler) CreateProduct(c *gin.Context) {
	trainer, err := h.getTrainer(c)
	if err != nil {
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid product", err.Error())
		return
	}
	product.ID = uuid.New().String()
	product.TrainerID = trainer.ID
	if !product.ValidDuration() {
		utils.JSONError(c, http.StatusBadRequest, "durationMin must be 30, 45, 60 or 90", "")
		return
	}

	if err := h.Products.Create(&product); err != nil {
		abortWithError(c, err)
		return
	}
	trainer.Products = append(trainer.Products, product.ID)
	if err := h.Trainers.Update(trainer); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits the catalogue entry. Existing bookings keep the
// price and duration snapshotted at creation.
func (h *TrainerHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid product", err.Error())
		return
	}
	product.ID = c.Param("productID")
	product.TrainerID = c.Param("id")
	if !product.ValidDuration() {
		utils.JSONError(c, http.StatusBadRequest, "durationMin must be 30, 45, 60 or 90", "")
		return
	}

	if err := h.Products.Update(&product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *TrainerHandler) DeleteProduct(c *gin.Context) {
	if err := h.Products.Delete(c.Param("productID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getTrainer resolves the :id path param, writing the error response
// itself; callers bail out on non-nil error.
func (h *TrainerHandler) getTrainer(c *gin.Context) (*models.Trainer, error) {
	trainer, err := h.Trainers.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
		} else {
			abortWithError(c, err)
		}
		return nil, err
	}
	return trainer, nil
}
