package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-cost-api/config"
	"medical-cost-api/handlers"
	"medical-cost-api/middleware"
	"medical-cost-api/models"
	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.InsuranceRecord{},
		&models.PredictionResult{},
		&models.ModelMetadata{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Services
	cache := services.NewCacheService(cfg.Redis)
	defer cache.Close()

	authService := services.NewAuthService(cfg.JWT)
	artifacts := services.NewArtifactStore(cfg.Model)
	predictionService := services.NewPredictionService(db, artifacts, cache, cfg.Model.Version)
	retrainService := services.NewRetrainService(db, artifacts, cache, cfg.Model)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, authService)
	predictHandler := handlers.NewPredictHandler(predictionService)
	retrainHandler := handlers.NewRetrainHandler(retrainService)
	recordsHandler := handlers.NewRecordsHandler(db, cache)
	metadataHandler := handlers.NewMetadataHandler(db, artifacts, cache, cfg.Model.Version)

	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "UP",
			"message": "Medical Cost Prediction API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.POST("/predict", predictHandler.Predict)
		v1.GET("/model", metadataHandler.Model)
		v1.GET("/live", handlers.LiveWebSocket(cache, authService))

		authed := v1.Group("", middleware.RequireAuth(authService))
		{
			authed.GET("/records", recordsHandler.List)
			authed.GET("/predictions", recordsHandler.Predictions)
			authed.GET("/metadata", metadataHandler.History)

			admin := authed.Group("", middleware.RequireRole(services.RoleAdmin))
			admin.POST("/retrain", retrainHandler.Retrain)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
