package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shipdesk/internal/app"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/server"
	quotinghandler "shipdesk/internal/features/quoting/handler"
	trackinghandler "shipdesk/internal/features/tracking/handler"

	"go.uber.org/zap"
)

// @title Shipdesk API
// @version 1.0
// @description This API quotes carrier services for packed items and reconciles shipment tracking status.
// @contact.name API Support
// @contact.email support@shipdesk.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_driver", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to wire application", zap.Error(err))
	}
	defer a.Close()

	quoteHdl := quotinghandler.NewQuoteHandler(a.Quotes)
	trackingHdl := trackinghandler.NewTrackingHandler(a.Shipments, a.Events, a.Poller)

	srv := server.New(cfg)
	for name, check := range a.Checks {
		srv.AddHealthCheck(name, check)
	}

	// Register Routes
	srv.App.Post("/quote", quoteHdl.Quote)
	srv.App.Get("/shipments/:number/events", trackingHdl.GetShipmentEvents)
	srv.App.Post("/tracking/poll", trackingHdl.TriggerPoll)

	pollDone := make(chan struct{})
	if cfg.Poller.Enabled {
		go func() {
			defer close(pollDone)
			a.Poller.Start(ctx)
		}()
	} else {
		close(pollDone)
		l.Info("Scheduled polling disabled")
	}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Run()
	}()

	select {
	case err := <-srvErr:
		l.Error("Server stopped", zap.Error(err))
		stop()
	case <-ctx.Done():
		l.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}

	a.Poller.Stop()
	<-pollDone
	a.Poller.Wait()
	l.Info("Application stopped")
}
