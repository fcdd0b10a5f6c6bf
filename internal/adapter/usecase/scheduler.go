package usecase

import (
	"context"
	"log/slog"
	"time"

	"portal-ads/internal/core/port"
	"portal-ads/internal/metrics"
)

// Scheduler drives time-based campaign lifecycle transitions: approved
// campaigns whose start date has arrived become active, and active or
// approved campaigns whose end date has passed become completed. Both scans
// are idempotent, so overlapping runs and restarts are harmless. The
// scheduler never touches draft, pending, paused or rejected campaigns; a
// paused campaign only resumes through the manual path.
type Scheduler struct {
	campaigns port.CampaignRepository
	interval  time.Duration
	logger    *slog.Logger
	mts       *metrics.Metrics

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler ticking at the given interval.
func NewScheduler(campaigns port.CampaignRepository, interval time.Duration, logger *slog.Logger, mts *metrics.Metrics) *Scheduler {
	return &Scheduler{
		campaigns: campaigns,
		interval:  interval,
		logger:    logger,
		mts:       mts,
	}
}

// Start launches the tick loop. It returns immediately; call Stop to halt.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx, time.Now().UTC())
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Tick runs one activation and one completion scan at the supplied instant.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	activated, err := s.campaigns.ActivateDue(ctx, now)
	if err != nil {
		s.logger.Error("scheduler activate scan failed", slog.Any("error", err))
	} else if activated > 0 {
		s.mts.SchedulerTransitions.WithLabelValues("activate").Add(float64(activated))
	}

	completed, err := s.campaigns.CompleteDue(ctx, now)
	if err != nil {
		s.logger.Error("scheduler complete scan failed", slog.Any("error", err))
	} else if completed > 0 {
		s.mts.SchedulerTransitions.WithLabelValues("complete").Add(float64(completed))
	}

	if activated > 0 || completed > 0 {
		s.logger.Info("campaign scheduler tick",
			slog.Int64("activated", activated),
			slog.Int64("completed", completed),
			slog.Time("now", now))
	}
}
