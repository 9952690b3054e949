package repeat

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Func performs submission number i (zero based).
type Func func(ctx context.Context, i int) error

// Runner schedules repeated submissions.
type Runner struct {
	config   Config
	limiter  *rate.Limiter
	metrics  *Metrics
	onResult func(i int, d time.Duration, err error)
}

// RunnerOption configures the runner
type RunnerOption func(*Runner)

// WithResultHook calls fn after every submission. fn may be called concurrently.
func WithResultHook(fn func(i int, d time.Duration, err error)) RunnerOption {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg Config, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		config:  cfg,
		metrics: NewMetrics(),
	}
	if cfg.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run calls fn Count times and returns the latency summary. Submission
// errors are counted, not returned; the returned error is non-nil only when
// ctx ends before every submission was started.
func (r *Runner) Run(ctx context.Context, fn Func) (*Summary, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	r.metrics.Start()
	for w := 0; w < r.config.concurrency(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r.execute(ctx, i, fn)
			}
		}()
	}

	var runErr error
	for i := 0; i < r.config.Count; i++ {
		if err := r.wait(ctx); err != nil {
			runErr = err
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			runErr = ctx.Err()
		}
		if runErr != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	r.metrics.Stop()

	return r.metrics.Summary(), runErr
}

func (r *Runner) wait(ctx context.Context) error {
	if r.limiter != nil {
		return r.limiter.Wait(ctx)
	}
	return ctx.Err()
}

func (r *Runner) execute(ctx context.Context, i int, fn Func) {
	start := time.Now()
	err := fn(ctx, i)
	d := time.Since(start)

	r.metrics.Record(d, err)
	if r.onResult != nil {
		r.onResult(i, d, err)
	}
}

// Run is shorthand for NewRunner(cfg).Run(ctx, fn).
func Run(ctx context.Context, cfg Config, fn Func) (*Summary, error) {
	r, err := NewRunner(cfg)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, fn)
}

// IsCanceled reports whether err came from the run's context ending.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
