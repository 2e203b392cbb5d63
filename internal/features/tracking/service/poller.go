package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/tracking/ports"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"
)

// ErrBatchInFlight is returned when a batch is requested while one is running.
var ErrBatchInFlight = errors.New("tracking batch already in flight")

// ErrPollerStopped is returned when a batch is requested after Stop.
var ErrPollerStopped = errors.New("poller stopped")

// BatchRunner runs one reconciliation pass.
type BatchRunner interface {
	RunBatch(ctx context.Context) (BatchResult, error)
}

// PollerConfig schedules batches.
type PollerConfig struct {
	Interval time.Duration
	// LockTTL bounds how long a crashed runner can keep other replicas from polling.
	LockTTL time.Duration
}

// Poller runs reconciliation batches on a fixed interval, at most one at a time.
type Poller struct {
	runner BatchRunner
	lock   ports.RunLock
	cfg    PollerConfig
	clock  clock.Clock

	// base is cancelled by Stop and bounds every batch the poller runs.
	base context.Context
	stop context.CancelFunc

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewPoller creates a Poller. lock may be nil when only one process polls.
func NewPoller(runner BatchRunner, lock ports.RunLock, cfg PollerConfig, clk clock.Clock) *Poller {
	if clk == nil {
		clk = clock.New()
	}
	base, stop := context.WithCancel(context.Background())
	return &Poller{runner: runner, lock: lock, cfg: cfg, clock: clk, base: base, stop: stop}
}

// Stop cancels the schedule and every running batch. Batches stop between
// shipments; call Wait to block until triggered ones have returned.
func (p *Poller) Stop() {
	p.stop()
}

// Start runs a batch immediately and then every interval until ctx is cancelled
// or Stop is called. Ticks that land while a batch is still running are skipped.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(p.base, cancel)()

	log := logger.Named("poller")
	ticker := p.clock.Ticker(p.cfg.Interval)
	defer ticker.Stop()

	log.Info("Poller started", zap.Duration("interval", p.cfg.Interval))
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// RunOnce runs a single batch in the caller's goroutine.
func (p *Poller) RunOnce(ctx context.Context) (BatchResult, error) {
	if !p.running.CompareAndSwap(false, true) {
		return BatchResult{}, ErrBatchInFlight
	}
	defer p.running.Store(false)
	return p.execute(ctx)
}

// Trigger starts an out-of-band batch in the background. The batch outlives
// ctx's cancellation but not Stop.
func (p *Poller) Trigger(ctx context.Context) error {
	if p.base.Err() != nil {
		return ErrPollerStopped
	}
	if !p.running.CompareAndSwap(false, true) {
		return ErrBatchInFlight
	}

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	release := context.AfterFunc(p.base, cancel)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)
		defer release()
		defer cancel()
		if _, err := p.execute(bg); err != nil && !errors.Is(err, context.Canceled) {
			logger.Named("poller").Error("Triggered batch failed", zap.Error(err))
		}
	}()
	return nil
}

// Running reports whether a batch is in flight.
func (p *Poller) Running() bool {
	return p.running.Load()
}

// Wait blocks until triggered batches have returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) tick(ctx context.Context) {
	log := logger.Named("poller")
	_, err := p.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrBatchInFlight):
		log.Info("Skipping tick, batch still in flight")
	case errors.Is(err, ports.ErrLockHeld):
		log.Info("Skipping tick, another replica is polling")
	case errors.Is(err, context.Canceled):
	default:
		log.Error("Tracking batch failed", zap.Error(err))
	}
}

func (p *Poller) execute(ctx context.Context) (BatchResult, error) {
	if p.lock != nil {
		release, err := p.lock.Acquire(ctx, p.cfg.LockTTL)
		if err != nil {
			return BatchResult{}, fmt.Errorf("failed to acquire run lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Named("poller").Warn("Failed to release run lock", zap.Error(err))
			}
		}()
	}
	return p.runner.RunBatch(ctx)
}
