// Package workers holds background loops that run beside the HTTP server.
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSweepInterval is used when no interval is configured
const DefaultSweepInterval = time.Minute

// ExpiredJobCloser closes ACTIVE jobs whose expiry has passed
type ExpiredJobCloser interface {
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// ExpiredTokenCleaner removes refresh tokens that are past their expiry
type ExpiredTokenCleaner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically expires jobs and purges stale refresh tokens
type Sweeper struct {
	jobs     ExpiredJobCloser
	tokens   ExpiredTokenCleaner
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSweeper creates a Sweeper
func NewSweeper(jobs ExpiredJobCloser, tokens ExpiredTokenCleaner, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		jobs:     jobs,
		tokens:   tokens,
		interval: interval,
		logger:   logger.With().Str("component", "sweeper").Logger(),
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("Sweeper started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass. A failing step is logged and does not block the other.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	if closed, err := s.jobs.CloseExpired(ctx, now); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close expired jobs")
	} else if closed > 0 {
		s.logger.Info().Int64("count", closed).Msg("Closed expired jobs")
	}

	if removed, err := s.tokens.DeleteExpired(ctx, now); err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete expired refresh tokens")
	} else if removed > 0 {
		s.logger.Debug().Int64("count", removed).Msg("Deleted expired refresh tokens")
	}
}
