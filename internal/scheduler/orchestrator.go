// Package scheduler drives repeated aggregation runs and fans results out
// to the optional sinks: run archive, Redis stream, websocket broadcast.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/pipeline"
	"github.com/fortuna/kickoff/internal/publisher"
	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/store"
)

// Broadcaster receives the serialized schedule after a changed run.
type Broadcaster interface {
	BroadcastSchedule(encoded []byte)
}

// Config holds scheduler settings.
type Config struct {
	Interval             time.Duration
	MaxConsecutiveErrors int
	DampingDelay         time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Interval:             30 * time.Minute,
		MaxConsecutiveErrors: 5,
		DampingDelay:         5 * time.Minute,
	}
}

// Orchestrator runs the pipeline on an interval and keeps the latest
// result available for the API.
type Orchestrator struct {
	pipe      *pipeline.Pipeline
	cfg       Config
	archive   *store.Database
	publisher *publisher.RedisPublisher
	broadcast Broadcaster
	log       *zap.Logger

	mu     sync.RWMutex
	latest *pipeline.Result
}

// NewOrchestrator creates an orchestrator. archive, pub and broadcast may
// each be nil; a missing sink is simply skipped.
func NewOrchestrator(pipe *pipeline.Pipeline, cfg Config, archive *store.Database,
	pub *publisher.RedisPublisher, broadcast Broadcaster, log *zap.Logger) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		cfg.MaxConsecutiveErrors = DefaultConfig().MaxConsecutiveErrors
	}
	return &Orchestrator{
		pipe:      pipe,
		cfg:       cfg,
		archive:   archive,
		publisher: pub,
		broadcast: broadcast,
		log:       log,
	}
}

// Start runs an immediate batch, then re-runs on the interval until the
// context is canceled. Repeated failures add a damping delay so a broken
// upstream does not get hammered.
func (o *Orchestrator) Start(ctx context.Context) {
	o.log.Info("scheduler started", zap.Duration("interval", o.cfg.Interval))

	consecutiveErrors := 0
	o.runOnce(ctx, &consecutiveErrors)

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			o.runOnce(ctx, &consecutiveErrors)
		}
	}
}

func (o *Orchestrator) runOnce(ctx context.Context, consecutiveErrors *int) {
	if err := o.Refresh(ctx); err != nil {
		*consecutiveErrors++
		o.log.Error("aggregation run failed",
			zap.Int("consecutive_errors", *consecutiveErrors), zap.Error(err))

		if *consecutiveErrors >= o.cfg.MaxConsecutiveErrors {
			o.log.Warn("high error rate, damping before next run",
				zap.Duration("delay", o.cfg.DampingDelay))
			select {
			case <-ctx.Done():
			case <-time.After(o.cfg.DampingDelay):
			}
		}
		return
	}
	*consecutiveErrors = 0
}

// Refresh executes one pipeline run and distributes the result. It is the
// API's synchronous refresh entry point as well.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	result, err := o.pipe.Run(ctx)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.latest = result
	o.mu.Unlock()

	if o.archive != nil {
		run := store.Run{
			StartedAt:     result.StartedAt,
			FinishedAt:    result.FinishedAt,
			Matches:       len(result.Matches),
			Candidates:    result.Metrics.Candidates,
			Merged:        result.Metrics.Merged,
			Orphans:       result.Metrics.Orphans,
			Discarded:     result.Metrics.Discarded,
			ServersAdded:  result.Metrics.ServersAdded,
			OutputChanged: result.OutputChanged,
		}
		if err := o.archive.RecordRun(ctx, run, result.Encoded); err != nil {
			o.log.Warn("run archive write failed", zap.Error(err))
		}
	}

	if result.OutputChanged {
		if o.publisher != nil {
			if err := o.publisher.PublishSchedule(ctx, result.Encoded, len(result.Matches)); err != nil {
				o.log.Warn("schedule publish failed", zap.Error(err))
			}
		}
		if o.broadcast != nil {
			o.broadcast.BroadcastSchedule(result.Encoded)
		}
	}

	return nil
}

// Snapshot returns the latest reconciled match set, nil before the first
// completed run.
func (o *Orchestrator) Snapshot() []*schedule.Match {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.latest == nil {
		return nil
	}
	return o.latest.Matches
}
