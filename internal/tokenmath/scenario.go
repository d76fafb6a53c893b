package tokenmath

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Scenario names one set of release inputs in a comparison table.
type Scenario struct {
	Name  string                 `json:"name"`
	Input AdminCompensationInput `json:"input"`
}

// ScenarioResult pairs a scenario with its computed schedule.
type ScenarioResult struct {
	Name     string          `json:"name"`
	Schedule ReleaseSchedule `json:"schedule"`
}

// ProjectScenarios builds the schedules for every scenario in parallel.
// Results keep the input order. The only error is ctx cancellation.
func ProjectScenarios(ctx context.Context, scenarios []Scenario) ([]ScenarioResult, error) {
	out := make([]ScenarioResult, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = ScenarioResult{Name: sc.Name, Schedule: BuildReleaseSchedule(sc.Input)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
