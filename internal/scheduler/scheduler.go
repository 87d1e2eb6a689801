package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobby-s-dev/air-quality-lookup/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 60 * time.Second

type Looker interface {
	Lookup(ctx context.Context, city string) (*models.Report, error)
}

// Scheduler periodically looks up a fixed list of cities and logs what it
// finds. Nothing is kept between runs.
type Scheduler struct {
	lookup   Looker
	logger   *zap.Logger
	cities   []string
	schedule string

	cron    *cron.Cron
	job     cron.Job
	entryID cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	started  bool
	stopping bool
	lastRun  time.Time
	runs     int
}

func NewScheduler(lookup Looker, cities []string, schedule string, logger *zap.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
	}

	s := &Scheduler{
		lookup:   lookup,
		logger:   logger,
		cities:   cities,
		schedule: schedule,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	cronLogger := zapCronLogger{logger.Sugar()}
	s.job = cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)).
		Then(cron.FuncJob(s.runFetch))
	s.cron = cron.New(cron.WithParser(parser), cron.WithLogger(cronLogger))
	s.entryID = s.cron.Schedule(sched, s.job)

	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.cron.Start()

	s.logger.Info("Watch scheduler started",
		zap.String("schedule", s.schedule),
		zap.Strings("cities", s.cities),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next))

	// Run immediately on start
	s.ForceRun()
}

// Stop halts the schedule, cancels in-flight lookups and waits for running
// jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.stopping = true
	s.mu.Unlock()

	s.logger.Info("Stopping watch scheduler")

	cronDone := s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(runTimeout):
		s.logger.Warn("Watch run still in progress after stop timeout")
	}
}

// ForceRun triggers a run now unless one is already in progress. It reports
// false once the scheduler is stopping.
func (s *Scheduler) ForceRun() bool {
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering watch run")
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
	return true
}

func (s *Scheduler) runFetch() {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.runs++
	s.mu.Unlock()

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	failed := 0
	for _, city := range s.cities {
		report, err := s.lookup.Lookup(ctx, city)
		if err != nil {
			failed++
			s.logger.Warn("Watch lookup failed",
				zap.String("city", city),
				zap.Error(err))
			continue
		}

		s.logger.Info("Watch report",
			zap.String("city", city),
			zap.String("location", report.Title),
			zap.String("aqi", report.AQI.Value),
			zap.String("aqi_description", report.AQI.Description),
			zap.String("uv", report.UV.Value),
			zap.String("uv_description", report.UV.Description),
			zap.String("health", report.Health))
	}

	s.logger.Info("Watch run completed",
		zap.Int("cities", len(s.cities)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(startTime)))
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"running":  s.started,
		"schedule": s.schedule,
		"last_run": s.lastRun,
		"next_run": s.cron.Entry(s.entryID).Next,
		"runs":     s.runs,
		"cities":   s.cities,
	}
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
