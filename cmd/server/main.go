package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachtrack/fitness-api/internal/api"
	"coachtrack/fitness-api/internal/config"
	"coachtrack/fitness-api/internal/repository/mongo"
	"coachtrack/fitness-api/internal/service"
	"coachtrack/fitness-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting fitness tracker API...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
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
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureClientIndexes(ctx, appDB.Collection("client_profiles"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		mongo.EnsureCheckInIndexes(ctx, appDB.Collection("checkins"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	checkInRepo := mongo.NewMongoCheckInRepository(appDB)
	txRunner := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	accessPolicy := service.NewAccessPolicy(clientRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	clientService := service.NewClientService(userRepo, clientRepo, accessPolicy, txRunner)
	planService := service.NewPlanService(planRepo, accessPolicy)
	checkInService := service.NewCheckInService(checkInRepo, accessPolicy, fileStorage)
	mlService := service.NewMLService(cfg.ML)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.CORS.Origin, cfg.JWT.Secret,
		authService, clientService, planService, checkInService, mlService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on :%s", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
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
