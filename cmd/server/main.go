package main

import (
	"alcyxob/workout-journey/internal/api"
	"alcyxob/workout-journey/internal/config"
	"alcyxob/workout-journey/internal/notify"
	"alcyxob/workout-journey/internal/repository/mongo"
	"alcyxob/workout-journey/internal/rewards"
	"alcyxob/workout-journey/internal/service"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Workout Journey Server...")
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		// Secrets stay out of the logs; only the non-sensitive knobs.
		if strings.HasPrefix(pair[0], "SERVER_") || strings.HasPrefix(pair[0], "DATABASE_") || strings.HasPrefix(pair[0], "PROGRAM_") {
			log.Printf("ENV: %s = %s", pair[0], pair[1])
		}
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	programStart, err := cfg.Program.StartTime()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	// The unlock collection's unique index backs the at-most-once
	// unlock guarantee, so this must not be skipped on fresh deploys.
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureUnlockIndexes(ctx, appDB.Collection("reward_unlocks"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Notifier ---
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Email.Enabled {
		log.Println("Initializing SES notifier...")
		notifier, err = notify.NewSESNotifier(cfg.Email)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize SES notifier: %v", err)
		}
	} else {
		log.Println("Email notifications disabled; using no-op notifier.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	unlockRepo := mongo.NewMongoUnlockRepository(appDB)
	userRepo := mongo.NewMongoUserRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	catalog := rewards.DefaultCatalog()
	sessionService := service.NewSessionService(
		sessionRepo,
		unlockRepo,
		userRepo,
		notifier,
		catalog,
		cfg.Program.SubjectID,
		cfg.Program.SubjectName,
		programStart,
	)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.CORS, sessionService, cfg.Program.SubjectID)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
