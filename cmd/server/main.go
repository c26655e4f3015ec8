package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "sewasaathi-backend/internal/api/grpc"
	httpapi "sewasaathi-backend/internal/api/http"
	"sewasaathi-backend/internal/app"
	"sewasaathi-backend/internal/config"
	"sewasaathi-backend/internal/jobs"
	"sewasaathi-backend/internal/logger"
	"sewasaathi-backend/internal/scheduler"
	"sewasaathi-backend/internal/security"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("scheduler", true, "Run the automation cron jobs in this process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting SewaSaathi rental backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	svcs := app.NewServices(cfg, store)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	router := httpapi.NewRouter(httpapi.Handlers{
		Products:      httpapi.NewProductHandler(svcs.Availability),
		Rentals:       httpapi.NewRentalHandler(svcs.Rentals, svcs.Quotations),
		Quotations:    httpapi.NewQuotationHandler(svcs.Quotations),
		Notifications: httpapi.NewNotificationHandler(svcs.Notifications),
		Automation:    httpapi.NewAutomationHandler(svcs.Automation, nil),
	}, httpapi.NewAuthMiddleware(tokenManager), cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Automation: svcs.Automation}, cfg, nil)
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	var healthSrv *grpcapi.HealthServer
	if addr := cfg.GetHealthAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		healthSrv = grpcapi.NewHealthServer()
		go func() {
			if err := healthSrv.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}

	// Graceful shutdown
	logger.Info("Shutting down...")
	if healthSrv != nil {
		healthSrv.SetServing(false)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	if healthSrv != nil {
		healthSrv.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
