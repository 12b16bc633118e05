package routes

import (
	"fitbook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every API endpoint onto the router.
func RegisterRoutes(
	r *gin.Engine,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	trainerHandler *handlers.TrainerHandler,
	reviewHandler *handlers.ReviewHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	api := r.Group("/api")

	availability := api.Group("/availability")
	{
		availability.GET("/:trainerID/slots", availabilityHandler.GetSlots)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.GET("/code/:code", bookingHandler.GetBookingByCode)
		bookings.GET("/:id/payment", bookingHandler.GetPaymentIntent)
		bookings.POST("/:id/confirm", bookingHandler.ConfirmBooking)
		bookings.POST("/:id/checkin", bookingHandler.CheckInBooking)
		bookings.POST("/:id/complete", bookingHandler.CompleteBooking)
		bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		bookings.POST("/:id/no-show", bookingHandler.MarkNoShow)

		bookings.POST("/:id/reviews", reviewHandler.CreateReview)
		bookings.GET("/:id/reviews", reviewHandler.ListReviews)
	}

	api.GET("/clients/:clientID/bookings", bookingHandler.ListClientBookings)

	api.GET("/settings", settingsHandler.GetSettings)
	api.PUT("/settings", settingsHandler.UpdateSettings)

	trainers := api.Group("/trainers")
	{
		trainers.GET("", trainerHandler.ListTrainers)
		trainers.GET("/:id", trainerHandler.GetTrainer)
		trainers.GET("/:id/bookings", bookingHandler.ListTrainerBookings)

		trainers.POST("/:id/rules", trainerHandler.AddRule)
		trainers.PUT("/:id/rules/:ruleID", trainerHandler.UpdateRule)
		trainers.DELETE("/:id/rules/:ruleID", trainerHandler.DeleteRule)

		trainers.POST("/:id/blackouts", trainerHandler.AddBlackout)
		trainers.DELETE("/:id/blackouts/:date", trainerHandler.RemoveBlackout)

		trainers.GET("/:id/exceptions", trainerHandler.ListExceptions)
		trainers.POST("/:id/exceptions", trainerHandler.AddException)
		trainers.DELETE("/:id/exceptions/:exceptionID", trainerHandler.DeleteException)

		trainers.GET("/:id/products", trainerHandler.ListProducts)
		trainers.POST("/:id/products", trainerHandler.CreateProduct)
		trainers.PUT("/:id/products/:productID", trainerHandler.UpdateProduct)
		trainers.DELETE("/:id/products/:productID", trainerHandler.DeleteProduct)
	}
}
