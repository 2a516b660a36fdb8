package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-slots/internal/config"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/platform/resilience"
	"github.com/robfig/cron/v3"
)

const (
	syncMatchesJobPath = "/v1/internal/sync/matches"
	syncLiveJobPath    = "/v1/internal/sync/live"
)

type jobDispatcher interface {
	Dispatch(ctx context.Context, path string, payload any) (jobqueue.Result, error)
}

type scheduledJob struct {
	name string
	spec string
	path string
}

// NewScheduler registers the periodic match and live-score syncs. Runs of the
// same job never overlap.
func NewScheduler(cfg config.Config, logger *logging.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dispatcher := jobqueue.NewDispatcher(jobqueue.DispatcherConfig{
		TargetBaseURL:    cfg.SchedulerTargetBaseURL,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.SchedulerTimeout,
		CircuitBreaker:   resilience.DefaultCircuitBreakerConfig(),
	}, logger.Named("jobqueue"))

	return newScheduler(cfg, dispatcher, logger)
}

func newScheduler(cfg config.Config, dispatcher jobDispatcher, logger *logging.Logger) (*cron.Cron, error) {
	location := cfg.SettlementLocation
	if location == nil {
		location = time.UTC
	}

	scheduler := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)

	jobs := []scheduledJob{
		{name: "sync-matches", spec: cfg.SchedulerSyncCron, path: syncMatchesJobPath},
		{name: "sync-live", spec: cfg.SchedulerLiveCron, path: syncLiveJobPath},
	}
	for _, job := range jobs {
		if strings.TrimSpace(job.spec) == "" {
			logger.Info("scheduled job disabled", "job", job.name, "reason", "empty cron spec")
			continue
		}
		if _, err := scheduler.AddFunc(job.spec, runJob(dispatcher, logger, job, cfg.SchedulerTimeout)); err != nil {
			return nil, fmt.Errorf("schedule %s spec=%q: %w", job.name, job.spec, err)
		}
		logger.Info("scheduled job registered", "job", job.name, "spec", job.spec, "path", job.path)
	}

	return scheduler, nil
}

func runJob(dispatcher jobDispatcher, logger *logging.Logger, job scheduledJob, timeout time.Duration) func() {
	return func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := dispatcher.Dispatch(ctx, job.path, nil)
		if err != nil {
			logger.ErrorContext(ctx, "scheduled job failed", "job", job.name, "status", result.StatusCode, "error", err)
			return
		}
		logger.InfoContext(ctx, "scheduled job completed",
			"job", job.name,
			"status", result.StatusCode,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}
}

// cronLogger adapts the service logger to cron's logging interface.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
