package sim

import (
	"context"
	"sync"

	"github.com/san-kum/sixdof/internal/rigid"
)

// BodyFactory builds the body for one ensemble member. Factories typically
// perturb the initial conditions per run index.
type BodyFactory func(run int) (*rigid.Body, error)

// Ensemble integrates several independent bodies concurrently. Bodies never
// share state, so runs are embarrassingly parallel; each goroutine owns its
// own body and simulator.
type Ensemble struct {
	factory BodyFactory
	loads   LoadModel
	numRuns int
}

func NewEnsemble(factory BodyFactory, loads LoadModel, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, loads: loads, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Seed = cfg.Seed + int64(idx)

			results[idx], errs[idx] = New(e.loads).Run(ctx, body, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
