package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"stationdesk/pkg/logger"
)

// Relay is the part of the outbox relay the worker drives.
type Relay interface {
	ProcessBatch(ctx context.Context) (int, error)
	MoveToDLQ(ctx context.Context) (int64, error)
	PurgePublished(ctx context.Context, retention time.Duration) (int64, error)
}

// WorkerConfig tunes the loops.
type WorkerConfig struct {
	PollInterval    time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
}

// Worker polls the outbox and keeps it tidy.
type Worker struct {
	relay Relay
	cfg   WorkerConfig
	log   *logger.Logger
}

func NewWorker(relay Relay, cfg WorkerConfig, log *logger.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	return &Worker{relay: relay, cfg: cfg, log: log.WithComponent("worker")}
}

// Run blocks until ctx is cancelled. Delivery errors are logged and retried
// on the next tick; they never stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.relayLoop(ctx)
		return nil
	})
	g.Go(func() error {
		w.cleanupLoop(ctx)
		return nil
	})
	return g.Wait()
}

func (w *Worker) relayLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain delivers full batches back to back until the outbox is empty.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.relay.ProcessBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Errorw("outbox batch failed", "error", err)
			}
			return
		}
		if n > 0 {
			w.log.Debugw("relayed outbox batch", "count", n)
		}
		if n == 0 {
			return
		}
	}
}

func (w *Worker) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *Worker) cleanup(ctx context.Context) {
	if n, err := w.relay.MoveToDLQ(ctx); err != nil {
		w.log.Errorw("move to dead letter queue failed", "error", err)
	} else if n > 0 {
		w.log.Warnw("moved failed outbox messages to dead letter queue", "count", n)
	}

	if n, err := w.relay.PurgePublished(ctx, w.cfg.Retention); err != nil {
		w.log.Errorw("purge published outbox messages failed", "error", err)
	} else if n > 0 {
		w.log.Infow("purged published outbox messages", "count", n)
	}
}
