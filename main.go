// File: stationbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stationbook/config"
	"stationbook/cron"
	"stationbook/database"
	bookingRepo "stationbook/database/repository/booking"
	paymentRepo "stationbook/database/repository/payment"
	slotRepo "stationbook/database/repository/slot"
	stationRepo "stationbook/database/repository/station"
	"stationbook/handlers"
	"stationbook/middleware"
	"stationbook/routes"
	"stationbook/services/booking"
	"stationbook/services/notification"
	"stationbook/services/payment"
	"stationbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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
	router.HandleMethodNotAllowed = true

	// repositories.
	stations := stationRepo.NewMongoStationRepo()
	slots := slotRepo.NewMongoSlotBlockRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	payments := paymentRepo.NewMongoPaymentRepo()

	if repo, ok := slots.(*slotRepo.MongoSlotBlockRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure slot block indexes: %v", err)
		}
	}
	if repo, ok := bookings.(*bookingRepo.MongoBookingRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
		}
	}
	if repo, ok := payments.(*paymentRepo.MongoPaymentRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure payment indexes: %v", err)
		}
	}

	clock := utils.SystemClock{}
	cache := utils.GetCacheClient()
	notifier := notification.NewLogEvents(logger)

	// services.
	availabilityService := &booking.DefaultAvailabilityService{
		Stations: stations,
		Slots:    slots,
		Bookings: bookings,
		Cache:    cache,
		Clock:    clock,
	}

	holdService := &booking.DefaultHoldService{
		Stations: stations,
		Slots:    slots,
		Bookings: bookings,
		Cache:    cache,
		Clock:    clock,
	}

	reaperService := &booking.DefaultReaperService{
		Slots: slots,
		Clock: clock,
	}

	gateway := payment.NewHTTPGateway(config.AppConfig.GatewayBaseURL, config.AppConfig.GatewayAPIKey)
	paymentService := &payment.DefaultService{
		Payments:      payments,
		Slots:         slots,
		Bookings:      bookings,
		Gateway:       gateway,
		Notifier:      notifier,
		Cache:         cache,
		Clock:         clock,
		WebhookSecret: config.AppConfig.GatewayWebhookSecret,
		PollAfter:     config.StatusPollAfter(),
		MaxPolls:      config.AppConfig.StatusMaxPolls,
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(availabilityService, holdService, reaperService, bookings, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, config.AppConfig.PaySuccessURL, config.AppConfig.PayFailureURL, logger)
	stationHandler := handlers.NewStationHandler(stations)

	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterPaymentRoutes(router, paymentHandler)
	routes.RegisterStationRoutes(router, stationHandler)
	routes.RegisterHealthRoute(router)

	utils.StartHealthMonitor(cache, database.MongoClient)
	cron.InitReaperWorker(reaperService)

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
