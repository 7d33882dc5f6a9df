package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weather-lookup/internal/config"
	"weather-lookup/internal/geocode"
	"weather-lookup/internal/handlers"
	"weather-lookup/internal/repository"
	"weather-lookup/internal/services"
	"weather-lookup/internal/upstream"
	"weather-lookup/pkg/database"
	"weather-lookup/pkg/logging"
	"weather-lookup/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("weather-lookup", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting weather lookup API server", logging.Fields{
		"version":     "1.0.0",
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Database,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("weather_lookup")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize upstream client and geocoding resolver
	upstreamClient := upstream.NewClient(cfg.Upstream, logger, metricsCollector)
	resolver := geocode.NewResolver(upstreamClient, logger, metricsCollector)

	// Initialize repository
	recordRepo := repository.NewRecordRepository(db, logger, metricsCollector)

	// Initialize services
	weatherService := services.NewWeatherService(resolver, upstreamClient, logger, metricsCollector)
	recordService := services.NewRecordService(recordRepo, resolver, upstreamClient, logger, metricsCollector)
	extrasService := services.NewExtrasService(upstreamClient, logger, metricsCollector)

	// Initialize handlers
	weatherHandler := handlers.NewWeatherHandler(weatherService, logger, metricsCollector)
	recordHandler := handlers.NewRecordHandler(recordService, logger, metricsCollector)
	extrasHandler := handlers.NewExtrasHandler(extrasService, logger, metricsCollector)

	// Setup router
	router := mux.NewRouter()

	// Register routes
	weatherHandler.RegisterRoutes(router)
	recordHandler.RegisterRoutes(router)
	extrasHandler.RegisterRoutes(router)
	router.HandleFunc("/openapi.json", handlers.OpenAPISpec).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Middleware wraps the router itself so CORS preflight requests are
	// answered even when no route matches the OPTIONS method.
	handler := handlers.RequestIDMiddleware(handlers.CORSMiddleware(router))

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
