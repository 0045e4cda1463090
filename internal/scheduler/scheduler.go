package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is a unit of periodic background work.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
	// RunOnStart runs the job once immediately instead of waiting a full interval.
	RunOnStart bool
}

type Config struct {
	Jobs   []Job
	Logger logrus.FieldLogger
}

// Scheduler runs each job on its own fixed cadence.
type Scheduler struct {
	jobs []Job
	log  logrus.FieldLogger
}

func New(cfg Config) *Scheduler {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	jobs := make([]Job, 0, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		if j.Run == nil || j.Every <= 0 {
			log.WithField("job", j.Name).Warn("job disabled")
			continue
		}
		jobs = append(jobs, j)
	}
	return &Scheduler{jobs: jobs, log: log.WithField("component", "scheduler")}
}

// Start blocks until ctx is cancelled and every job loop has returned.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.loop(ctx, j)
		}(j)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	log := s.log.WithField("job", j.Name)
	log.WithField("every", j.Every.String()).Info("job scheduled")

	if j.RunOnStart {
		s.runOnce(ctx, log, j)
	}
	ticker := time.NewTicker(j.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, log, j)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, log logrus.FieldLogger, j Job) {
	started := time.Now()
	if err := j.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.WithError(err).Error("job failed")
		return
	}
	log.WithField("took_ms", time.Since(started).Milliseconds()).Debug("job finished")
}
