package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/nocodejam/badge-engine/logger"
	"github.com/nocodejam/badge-engine/models"
)

// BatchRunner awards badges to every user.
type BatchRunner interface {
	ProcessAllUsers(ctx context.Context) ([]models.UserAwardResult, error)
}

// Scheduler runs the badge batch periodically. With a zero Interval it runs
// at local midnight and then every 24 hours.
type Scheduler struct {
	Runner   BatchRunner
	Interval time.Duration
	Log      *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(runner BatchRunner, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		Runner:   runner,
		Interval: interval,
		Log:      log,
	}
}

// Start begins the schedule in the background. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	first, every := s.Interval, s.Interval
	if every <= 0 {
		now := time.Now()
		nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		first, every = nextMidnight.Sub(now), 24*time.Hour
	}

	s.log().Info("scheduler started", "first_run_in", first.String(), "every", every.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(first)
		defer timer.Stop()

		for {
			select {
			case <-timer.C:
				s.RunOnce(ctx)
				timer.Reset(every)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the schedule and waits for a running batch to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log().Info("scheduler stopped")
}

// RunOnce runs a single batch and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	started := time.Now()
	s.log().Info("running badge batch")

	results, err := s.Runner.ProcessAllUsers(ctx)
	if err != nil {
		s.log().Error("scheduled batch failed", "error", err)
		return err
	}

	awarded, failures := 0, 0
	for _, result := range results {
		awarded += len(result.Awarded)
		failures += len(result.Failures)
	}

	s.log().Info("scheduled batch finished",
		"users", len(results),
		"awarded", awarded,
		"award_failures", failures,
		"took", time.Since(started).String(),
	)
	return nil
}

func (s *Scheduler) log() *logger.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.NewNop()
}
