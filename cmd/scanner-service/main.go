package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bridgeops/idscan-backend/internal/scan/events"
	"github.com/bridgeops/idscan-backend/internal/scan/handler"
	"github.com/bridgeops/idscan-backend/internal/scan/parser"
	"github.com/bridgeops/idscan-backend/internal/scan/recognizer"
	"github.com/bridgeops/idscan-backend/internal/scan/repository"
	"github.com/bridgeops/idscan-backend/internal/scan/service"
	"github.com/bridgeops/idscan-backend/internal/scan/storage"
	"github.com/bridgeops/idscan-backend/pkg/config"
	"github.com/bridgeops/idscan-backend/pkg/database"
	"github.com/bridgeops/idscan-backend/pkg/httputil"
	"github.com/bridgeops/idscan-backend/pkg/logger"
	"github.com/bridgeops/idscan-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("scanner-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("scanner-service", cfg.Server.Environment)
	log.Info().Msg("starting Scanner Service")

	// Connect to database (audit trail)
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewScanEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize scan pipeline
	engine := recognizer.NewRemoteEngine(cfg.OCR.EngineURL)
	adapter := recognizer.NewAdapter(engine, cfg.OCR.Languages, cfg.Scan.MaxUploadBytes, cfg.OCR.Timeout, log)
	docParser := parser.New()
	store := storage.NewStore(cfg.Scan.SessionTTL)
	auditRepo := repository.NewAuditRepository(db)

	scanService := service.New(adapter, docParser, store, auditRepo, publisher, log)
	scanHandler := handler.NewHandler(scanService, auditRepo, cfg.Scan.MaxUploadBytes, cfg.Scan.AuditLimit, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(2 * cfg.OCR.Timeout))

	// Scans are uploaded straight from back-office browser forms
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.bridgeops.ae"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "scanner-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		scanHandler.Routes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
