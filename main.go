package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"report-validation-pipeline/abuse"
	"report-validation-pipeline/classifier"
	"report-validation-pipeline/config"
	"report-validation-pipeline/dedup"
	"report-validation-pipeline/handlers"
	"report-validation-pipeline/labeler"
	"report-validation-pipeline/ledger"
	"report-validation-pipeline/metrics"
	"report-validation-pipeline/pipeline"
	"report-validation-pipeline/profanity"
	"report-validation-pipeline/rabbitmq"
)

func main() {
	// Load configuration
	cfg := config.Load()

	metrics.Register()

	// Open the decision ledger
	decisionLedger, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		log.Fatalf("Failed to open ledger: %v", err)
	}
	defer decisionLedger.Close()

	// Optional statistical profanity capability
	var textClassifier abuse.TextClassifier
	if cfg.ProfanityURL != "" {
		textClassifier = profanity.NewClient(cfg.ProfanityURL, cfg.ProfanityTimeout)
		log.Infof("Statistical profanity service enabled: %s", cfg.ProfanityURL)
	}

	// Optional image labeling capability
	var imageLabeler pipeline.Labeler
	if cfg.LabelerURL != "" {
		imageLabeler = labeler.NewClient(cfg.LabelerURL, cfg.LabelerTimeout)
		log.Infof("Image labeler service enabled: %s", cfg.LabelerURL)
	}

	// Optional decision publisher
	var publisher pipeline.Publisher
	var publisherStatus handlers.ConnectionChecker
	if cfg.AMQPURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.DecisionRoutingKey)
		if err != nil {
			log.Errorf("Failed to initialize RabbitMQ publisher: %v", err)
			// Continue without publisher - validation still works
		} else {
			publisher = p
			publisherStatus = p
			defer p.Close()
		}
	}

	validationPipeline := pipeline.New(
		cfg,
		decisionLedger,
		classifier.New(),
		abuse.New(textClassifier),
		dedup.New(decisionLedger, cfg.LocationThresholdMeters, cfg.ImageHashThreshold),
		imageLabeler,
		publisher,
	)

	// Initialize handlers
	h := handlers.NewHandlers(cfg, decisionLedger, validationPipeline, publisherStatus)

	// Setup HTTP server
	router := gin.Default()

	// API routes
	api := router.Group("/api/v3")
	{
		api.POST("/submit", h.Submit)
		api.GET("/health", h.HealthCheck)
		api.GET("/status", h.GetStatus)
		api.GET("/stats", h.GetStats)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
