// Package app wires configuration into the quoting and tracking features.
package app

import (
	"context"
	"fmt"
	"strings"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/config"
	"shipdesk/internal/core/database"
	"shipdesk/internal/core/httpclient"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/oauth"
	quotingadapter "shipdesk/internal/features/quoting/adapters"
	quotingdomain "shipdesk/internal/features/quoting/domain"
	quotingports "shipdesk/internal/features/quoting/ports"
	quotingservice "shipdesk/internal/features/quoting/service"
	trackingadapter "shipdesk/internal/features/tracking/adapters"
	trackingports "shipdesk/internal/features/tracking/ports"
	trackingservice "shipdesk/internal/features/tracking/service"

	"go.uber.org/zap"
)

// PollLockKey is the Redis key guarding the reconciliation batch across replicas.
const PollLockKey = "tracking:poll:lock"

// store is satisfied by both persistence drivers.
type store interface {
	trackingports.ShipmentStore
	trackingports.ShipmentRegistry
	trackingports.EventStore
}

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config *config.AppConfig

	Quotes     quotingports.QuoteService
	Shipments  trackingports.ShipmentStore
	Registry   trackingports.ShipmentRegistry
	Events     trackingports.EventStore
	Reconciler *trackingservice.Reconciler
	Poller     *trackingservice.Poller

	// Checks are the dependency probes exposed by the health endpoint.
	Checks map[string]func(ctx context.Context) error

	closers []func()
}

// New connects the configured backends and builds every service.
// Close must be called to release what New opened.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{Config: cfg, Checks: map[string]func(ctx context.Context) error{}}
	l := logger.Get()

	st, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Shipments, a.Registry, a.Events = st, st, st

	var redis cache.Cache
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		a.closers = append(a.closers, func() { rc.Close() })
		a.Checks["redis"] = rc.Ping
		redis = rc
		l.Info("Redis connected")
	}

	baseURL := strings.TrimRight(cfg.Carrier.BaseURL, "/")
	tokens := oauth.NewTokenSource(
		httpclient.NewClient("carrier-oauth", cfg.Carrier.Timeout),
		oauth.Credentials{
			TokenURL:      baseURL + "/security/v1/oauth/token",
			ClientID:      cfg.Carrier.ClientID,
			ClientSecret:  cfg.Carrier.ClientSecret,
			AccountNumber: cfg.Carrier.AccountNumber,
		},
		nil,
	)

	var rates quotingports.RateProvider = quotingadapter.NewUPSRatingAdapter(
		httpclient.NewClient("carrier-rating", cfg.Carrier.RateTimeout),
		baseURL,
		cfg.Carrier.AccountNumber,
		tokens,
	)
	if redis != nil {
		rates = quotingadapter.NewCachedRateProvider(rates, redis, cfg.Redis.RateCacheTTL)
	}

	a.Quotes = quotingservice.NewQuoteService(rates, quotingdomain.Region{
		State:      strings.ToUpper(cfg.Shipper.State),
		PostalCode: cfg.Shipper.PostalCode,
		Country:    cfg.Shipper.Country,
	}, cfg.Carrier.RateTimeout)

	tracker := trackingadapter.NewUPSTrackingAdapter(
		httpclient.NewClient("carrier-tracking", cfg.Carrier.Timeout),
		baseURL,
		tokens,
	)

	a.Reconciler = trackingservice.NewReconciler(
		tracker,
		a.Shipments,
		a.Events,
		a.notifier(),
		trackingservice.ReconcilerConfig{
			CarrierTimeout: cfg.Carrier.Timeout,
			NotifyTimeout:  cfg.Workflow.NotifyTimeout,
			Delay:          cfg.Poller.Delay,
		},
		nil,
	)

	var lock trackingports.RunLock
	if redis != nil {
		lock = trackingadapter.NewRedisRunLock(redis, PollLockKey)
	}
	a.Poller = trackingservice.NewPoller(a.Reconciler, lock, trackingservice.PollerConfig{
		Interval: cfg.Poller.Interval,
		LockTTL:  cfg.Poller.LockTTL,
	}, nil)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (store, error) {
	cfg := a.Config.Store
	if cfg.Driver == config.StoreDriverMemory {
		logger.Get().Warn("Using in-memory shipment store, state is lost on restart")
		return trackingadapter.NewMemoryStore(), nil
	}

	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	a.Checks["postgres"] = pool.Ping
	logger.Get().Info("Postgres connected")

	return trackingadapter.NewPostgresStore(pool), nil
}

// notifier builds the configured status transition sinks. Nil when none is configured.
func (a *App) notifier() trackingports.Notifier {
	wf := a.Config.Workflow
	var sinks []trackingports.Notifier

	if wf.WebhookURL != "" {
		sinks = append(sinks, trackingadapter.NewWebhookNotifier(
			httpclient.NewClient("workflow-webhook", wf.NotifyTimeout),
			wf.WebhookURL,
		))
	}

	if wf.KafkaBrokers != "" {
		kn := trackingadapter.NewKafkaNotifier(wf.KafkaBrokers, wf.KafkaTopic)
		a.closers = append(a.closers, func() {
			if err := kn.Close(); err != nil {
				logger.Get().Warn("Failed to close kafka writer", zap.Error(err))
			}
		})
		sinks = append(sinks, kn)
	}

	switch len(sinks) {
	case 0:
		logger.Get().Warn("No workflow sink configured, status transitions are not forwarded")
		return nil
	case 1:
		return sinks[0]
	default:
		return trackingadapter.NewFanoutNotifier(sinks...)
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
