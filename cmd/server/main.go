package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joimopro25-dot/myimomate-crm-sub000/config"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/api"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/database"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/processor"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/queue"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	config.SetTaxProfilesPath(cfg.Server.TaxProfilesPath)
	if err := config.LoadTaxProfiles(); err != nil {
		logger.WithError(err).Fatal("Failed to load tax profiles")
	}

	logger.Infof("Using database at: %s", cfg.Server.DatabasePath)
	db, err := database.NewDatabase(cfg.Server.DatabasePath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	analyzer := analysis.NewAnalyzer(cfg.Assumptions(), logger)

	// Background batch analysis
	dealQueue := queue.NewDealQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(db, dealQueue, analyzer, cfg, logger)
	batchProcessor.Start()
	dealQueue.Start()

	handler := api.NewHandler(db, analyzer, dealQueue, cfg, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(router, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Let the queued batches drain before the database closes
	if err := dealQueue.Close(); err != nil {
		logger.WithError(err).Error("Failed to close deal queue")
	}
	batchProcessor.Stop()

	logger.Info("Server stopped")
}
