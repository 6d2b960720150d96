package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/comicrelay/comicrelay/app/pipeline"
)

// ErrExhausted is returned when the empty-result retry bound is reached
// without finding any eligible items. The absence of new content is not
// itself an error; callers report this as a warning, not a crash.
var ErrExhausted = errors.New("retry bound reached with no eligible items")

// Engine is the single operation the runner drives.
type Engine interface {
	RunOnce(ctx context.Context) (*pipeline.Result, error)
}

// Runner is the outer scheduling loop: polling -> working on the first
// non-empty pass, polling -> idle -> exhausted when the feed stays
// empty. A feed outage gets its own, typically longer, interval and its
// own bound before the failure propagates. The runner is the only
// cancellable unit; it is abandoned between attempts, never mid-item.
type Runner struct {
	engine         Engine
	emptyAttempts  int
	outageAttempts int
	pollInterval   time.Duration
	outageInterval time.Duration
}

func New(engine Engine, emptyAttempts, outageAttempts int, pollInterval, outageInterval time.Duration) *Runner {
	return &Runner{
		engine:         engine,
		emptyAttempts:  emptyAttempts,
		outageAttempts: outageAttempts,
		pollInterval:   pollInterval,
		outageInterval: outageInterval,
	}
}

// Run calls RunOnce until a pass finds work, a bound is reached, or a
// fatal error occurs. It returns the newly created post refs of the
// first non-empty pass.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	emptyResults := 0
	outages := 0

	for {
		result, err := r.engine.RunOnce(ctx)
		if err != nil {
			if !errors.Is(err, pipeline.ErrFeedUnavailable) {
				return nil, err
			}

			outages++
			if outages > r.outageAttempts {
				return nil, fmt.Errorf("feed stayed unreachable after %d attempts: %w", outages, err)
			}
			slog.Warn("Feed unavailable, will retry",
				"attempt", outages, "max_attempts", r.outageAttempts,
				"interval", r.outageInterval.String(), "error", err)
			if err := r.sleep(ctx, r.outageInterval); err != nil {
				return nil, err
			}
			continue
		}

		if result.Eligible > 0 {
			return result.Posts, nil
		}

		emptyResults++
		if emptyResults > r.emptyAttempts {
			return nil, ErrExhausted
		}
		slog.Warn("No eligible items found, sleeping before retry",
			"remaining_attempts", r.emptyAttempts-emptyResults+1,
			"interval", r.pollInterval.String())
		if err := r.sleep(ctx, r.pollInterval); err != nil {
			return nil, err
		}
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
