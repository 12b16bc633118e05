package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbook/config"
	"fitbook/cron"
	"fitbook/database"
	"fitbook/database/repository"
	"fitbook/handlers"
	"fitbook/middleware"
	"fitbook/routes"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	trainerRepo := repository.NewMongoTrainerRepo()
	productRepo := repository.NewMongoProductRepo()
	clientRepo := repository.NewMongoClientRepo()
	venueRepo := repository.NewMongoVenueRepo()
	bookingRepo := repository.NewMongoBookingRepo()
	paymentRepo := repository.NewMongoPaymentIntentRepo()
	checkInRepo := repository.NewMongoCheckInRepo()
	exceptionRepo := repository.NewMongoExceptionRepo()
	reviewRepo := repository.NewMongoReviewRepo()
	settingsRepo := repository.NewMongoSettingsRepo()

	// async confirmation queue.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// services.
	bookingService := &booking.DefaultBookingService{
		Trainers:     trainerRepo,
		Products:     productRepo,
		Clients:      clientRepo,
		VenueRepo:    venueRepo,
		Bookings:     bookingRepo,
		Payments:     paymentRepo,
		CheckIns:     checkInRepo,
		Exceptions:   exceptionRepo,
		Cache:        utils.GetCacheClient(),
		Queue:        queueClient,
		Clock:        booking.SystemClock(),
		Logger:       logger,
		ConfirmDelay: time.Duration(config.AppConfig.ConfirmDelaySec) * time.Second,
	}

	cron.InitConfirmWorker(bookingService)

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(bookingService)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	trainerHandler := handlers.NewTrainerHandler(trainerRepo, productRepo, exceptionRepo)
	reviewHandler := handlers.NewReviewHandler(bookingService, reviewRepo, trainerRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler, trainerHandler, reviewHandler, settingsHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
