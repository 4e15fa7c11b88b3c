package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work. Spec uses the six-field cron format
// (seconds first) or a descriptor such as "@every 10m".
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job
	log  *zap.Logger
}

var specParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func NewScheduler(log *zap.Logger, jobs ...Job) (*Scheduler, error) {
	for _, j := range jobs {
		if _, err := specParser.Parse(j.Spec); err != nil {
			return nil, fmt.Errorf("job %s: invalid schedule %q: %w", j.Name, j.Spec, err)
		}
	}
	return &Scheduler{jobs: jobs, log: log}, nil
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits
// for running jobs to return.
func (s *Scheduler) Run(ctx context.Context) error {
	cronLog := cron.PrintfLogger(zap.NewStdLog(s.log.Named("cron")))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	for _, j := range s.jobs {
		if _, err := c.AddFunc(j.Spec, func() { s.runJob(ctx, j) }); err != nil {
			return fmt.Errorf("schedule %s: %w", j.Name, err)
		}
	}

	c.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) runJob(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.log.Info("job started", zap.String("job", j.Name))

	if err := j.Run(ctx); err != nil {
		s.log.Error("job failed", zap.String("job", j.Name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	s.log.Info("job finished", zap.String("job", j.Name), zap.Duration("took", time.Since(start)))
}
