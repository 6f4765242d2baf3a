// Package jobs runs periodic booking maintenance.
package jobs

import (
	"context"
	"time"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Completer interface {
	CompletePast(ctx context.Context, now time.Time) (int, error)
}

// CompletionJob moves bookings whose event window has ended to COMPLETED on a
// cron schedule. Overlapping runs are skipped.
type CompletionJob struct {
	completer Completer
	schedule  string
	timeout   time.Duration
	log       *logger.Logger
	cron      *cron.Cron
	now       func() time.Time
}

func NewCompletionJob(completer Completer, schedule string, timeout time.Duration, log *logger.Logger) *CompletionJob {
	cl := cronLogger{log: log}
	return &CompletionJob{
		completer: completer,
		schedule:  schedule,
		timeout:   timeout,
		log:       log,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		now: time.Now,
	}
}

func (j *CompletionJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info("Completion job scheduled", "schedule", j.schedule)
	return nil
}

// Stop prevents new runs and waits for a running one until ctx is done.
func (j *CompletionJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.log.Warn("Completion job did not finish before shutdown")
	}
}

// Run performs one completion pass.
func (j *CompletionJob) Run(ctx context.Context) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := j.completer.CompletePast(ctx, j.now())
	if err != nil {
		j.log.Error("Completion job failed", "completed", n, "error", err)
		return
	}
	j.log.Debug("Completion job finished", "completed", n, "duration", time.Since(start))
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
