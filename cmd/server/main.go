package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driveschool-service/internal/infrastructure/config"
	"driveschool-service/internal/infrastructure/oauth"
	"driveschool-service/internal/infrastructure/persistence"
	gmailMailer "driveschool-service/internal/interface/gmail"
	"driveschool-service/internal/interface/httpapi"
	mongoRepo "driveschool-service/internal/interface/repository"
	"driveschool-service/internal/usecase"
	"driveschool-service/pkg/clock"
	"driveschool-service/pkg/logger"
	"driveschool-service/pkg/metrics"
	"driveschool-service/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Driveschool Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	studentRepo := mongoRepo.NewMongoStudentRepository(db)
	vehicleRepo := mongoRepo.NewMongoVehicleRepository(db)
	lessonRepo := mongoRepo.NewMongoLessonRepository(db)
	maintenanceRepo := mongoRepo.NewMongoMaintenanceRepository(db)
	lockRepo := mongoRepo.NewMongoBookingLockRepository(db)
	instructorRepo := mongoRepo.NewGormInstructorRepository(gormDB)

	m := metrics.NewMetrics("driveschool")
	clk := clock.Real{}

	// Set up the scheduling engine
	conflicts := usecase.NewConflictChecker(lessonRepo, log)
	resolver := usecase.NewAvailabilityResolver(vehicleRepo, instructorRepo, conflicts, log)
	tracker := usecase.NewMaintenanceTracker(vehicleRepo, maintenanceRepo, usecase.MaintenancePolicy{
		ServiceIntervalDays: cfg.ServiceIntervalDays,
		ServiceIntervalKm:   cfg.ServiceIntervalKm,
	}, clk, log, m)
	scheduler := usecase.NewLessonScheduler(
		studentRepo, instructorRepo, vehicleRepo, lessonRepo, lockRepo,
		conflicts, businessHours(cfg, log), cfg.LockTTL, clk, log, m,
	)
	registry := usecase.NewRegistry(studentRepo, vehicleRepo, log)

	// Set up the lesson reminder mailer when Gmail is configured
	if cfg.GmailClientID != "" && cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		mailer, err := gmailMailer.NewReminderMailer(ctx, gmailOAuth.GetTokenSource(ctx), "me", log)
		if err != nil {
			log.Fatal("Failed to create reminder mailer", "error", err)
		}
		reminders := usecase.NewReminderService(lessonRepo, studentRepo, instructorRepo, mailer, clk, log, m)
		go reminders.Run(ctx, cfg.ReminderPollInterval)
	} else {
		log.Warn("Gmail not configured, lesson reminders disabled")
	}

	// Set up HTTP server
	router := mux.NewRouter()
	httpapi.NewHandler(scheduler, resolver, tracker, registry, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Driveschool Service stopped")
}

// businessHours parses the configured opening window; malformed values
// disable the check rather than blocking startup.
func businessHours(cfg *config.Config, log logger.Logger) usecase.BusinessHours {
	if cfg.BusinessOpen == "" || cfg.BusinessClose == "" {
		return usecase.BusinessHours{}
	}
	open, err := utils.ParseClockMinute(cfg.BusinessOpen)
	if err != nil {
		log.Warn("Invalid BUSINESS_OPEN, business hours disabled", "value", cfg.BusinessOpen)
		return usecase.BusinessHours{}
	}
	close, err := utils.ParseClockMinute(cfg.BusinessClose)
	if err != nil {
		log.Warn("Invalid BUSINESS_CLOSE, business hours disabled", "value", cfg.BusinessClose)
		return usecase.BusinessHours{}
	}
	return usecase.BusinessHours{OpenMinute: open, CloseMinute: close}
}
