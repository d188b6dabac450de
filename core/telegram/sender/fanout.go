package sender

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/m3rciful/servicebot/core/logger"
)

const compSender = "tg.sender"

// Options controls a fan-out run.
type Options struct {
	// Workers bounds concurrent sends; zero means one.
	Workers int
	// Interval is the minimum gap between two sends across all workers; zero disables pacing.
	Interval time.Duration
}

// SendFunc delivers to a single recipient.
type SendFunc func(ctx context.Context, recipient int64) error

// Result is the outcome for one recipient.
type Result struct {
	Recipient int64
	Err       error
}

// Report summarises a fan-out run. Results keep the recipients order.
type Report struct {
	RunID     string
	Attempted int
	Succeeded int
	Failed    int
	Results   []Result
	Elapsed   time.Duration
}

// Fanout calls send once for every recipient with bounded concurrency and fixed pacing.
// A failing recipient never stops the run; failures are not retried.
// When ctx is cancelled the remaining recipients are recorded with the context error.
func Fanout(ctx context.Context, recipients []int64, opts Options, send SendFunc) Report {
	start := time.Now()
	report := Report{
		RunID:     newRunID(),
		Attempted: len(recipients),
		Results:   make([]Result, len(recipients)),
	}
	if len(recipients) == 0 || send == nil {
		report.Results = report.Results[:0]
		return report
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)

	for i, id := range recipients {
		g.Go(func() error {
			err := limiter.Wait(ctx)
			if err == nil {
				err = send(ctx, id)
			}
			report.Results[i] = Result{Recipient: id, Err: err}
			if err != nil {
				failed.Add(1)
				logger.Debug(ctx, compSender, "send.fail",
					slog.String("run_id", report.RunID),
					slog.Int64("recipient", id),
					slog.String("error", sanitizeErrorMessage(err)),
					slog.String("error_kind", classifyError(err)),
				)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report.Succeeded = int(succeeded.Load())
	report.Failed = int(failed.Load())
	report.Elapsed = time.Since(start)

	logger.Info(ctx, compSender, "send.fanout.done",
		slog.String("run_id", report.RunID),
		slog.Int("recipients", report.Attempted),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
		slog.Int("workers", workers),
		slog.Int("elapsed_ms", durationToMS(report.Elapsed)),
	)
	return report
}

// FailureKinds groups failed results by error kind for summaries.
func (r Report) FailureKinds() map[string]int {
	kinds := make(map[string]int)
	for _, res := range r.Results {
		if res.Err != nil {
			kinds[classifyError(res.Err)]++
		}
	}
	return kinds
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func durationToMS(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(logger.RoundMS(d) / time.Millisecond)
}
