package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cwbudde/seriesfit/asktell"
)

// CollectSamples drives a sampler's ask/evaluate/tell loop until n samples
// are accepted. Rejection retries happen here, never inside the sampler, so
// callers that need different scheduling can write their own loop against
// the same contract.
func CollectSamples(ctx context.Context, s asktell.Sampler, eval Evaluator, n int) ([][]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("run: sampler must not be nil")
	}
	if eval == nil {
		return nil, fmt.Errorf("run: evaluator must not be nil")
	}
	if n < 1 {
		return nil, fmt.Errorf("run: at least one sample must be requested, got %d", n)
	}

	slog.Info("Collecting samples", "method", s.Name(), "target", n)

	samples := make([][]float64, 0, n)
	proposed := 0
	for len(samples) < n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		xs, err := s.Ask(1)
		if err != nil {
			return nil, err
		}
		proposed++

		fx, err := eval(xs[0])
		if err != nil {
			return nil, fmt.Errorf("run: evaluating draw %d: %w", proposed, err)
		}

		accepted, err := s.Tell([]float64{fx})
		if err != nil {
			return nil, err
		}
		samples = append(samples, accepted...)
	}

	slog.Info("Sample collection complete",
		"method", s.Name(),
		"accepted", len(samples),
		"proposed", proposed,
	)
	return samples, nil
}
