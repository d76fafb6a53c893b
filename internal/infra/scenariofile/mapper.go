package scenariofile

import (
	"fmt"
	"math"
	"strings"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/tokenmath"
)

// Table is a named set of release scenarios sharing one cycle count.
// Cycles is 0 when the file leaves it to the workspace default.
type Table struct {
	Cycles    int
	Scenarios []tokenmath.Scenario
}

func mapTable(path string, yt yamlTable) (Table, error) {
	var t Table
	if yt.Cycles != nil {
		if n := *yt.Cycles; n <= 0 || n > tokenmath.MaxCycleCount {
			return Table{}, invalidField(path, "cycles", fmt.Sprintf("must be between 1 and %d, got %d", tokenmath.MaxCycleCount, n))
		}
		t.Cycles = *yt.Cycles
	}
	if len(yt.Scenarios) == 0 {
		return Table{}, invalidField(path, "scenarios", "at least one scenario is required")
	}

	seen := make(map[string]int, len(yt.Scenarios))
	t.Scenarios = make([]tokenmath.Scenario, 0, len(yt.Scenarios))
	for i, s := range yt.Scenarios {
		prefix := fmt.Sprintf("scenarios[%d]", i)

		name := strings.TrimSpace(s.Name)
		if name == "" {
			return Table{}, invalidField(path, prefix+".name", "name is required")
		}
		if j, dup := seen[name]; dup {
			return Table{}, invalidField(path, prefix+".name", fmt.Sprintf("%q already used by scenarios[%d]", name, j))
		}
		seen[name] = i

		in := merge(yt.Defaults, s.yamlInputs)
		if in.Tokens == nil {
			return Table{}, invalidField(path, prefix+".tokens", "tokens is required (here or under defaults)")
		}
		if in.Rate == nil {
			return Table{}, invalidField(path, prefix+".rate", "rate is required (here or under defaults)")
		}

		sc := tokenmath.Scenario{
			Name: name,
			Input: tokenmath.AdminCompensationInput{
				CompensationPercent: value(in.AdminComp),
				Schedule: tokenmath.ReleaseScheduleInput{
					TokensCreated:          *in.Tokens,
					TokensPriorWorkPercent: value(in.PriorWork),
					TokenReleaseRate:       *in.Rate,
					CycleCount:             t.Cycles,
				},
			},
		}
		if err := checkInputs(path, prefix, sc.Input); err != nil {
			return Table{}, err
		}
		t.Scenarios = append(t.Scenarios, sc)
	}
	return t, nil
}

func merge(defaults, own yamlInputs) yamlInputs {
	out := defaults
	if own.Tokens != nil {
		out.Tokens = own.Tokens
	}
	if own.PriorWork != nil {
		out.PriorWork = own.PriorWork
	}
	if own.Rate != nil {
		out.Rate = own.Rate
	}
	if own.AdminComp != nil {
		out.AdminComp = own.AdminComp
	}
	return out
}

func checkInputs(path, prefix string, in tokenmath.AdminCompensationInput) error {
	fields := []struct {
		name    string
		v       float64
		percent bool
	}{
		{"tokens", in.Schedule.TokensCreated, false},
		{"prior_work", in.Schedule.TokensPriorWorkPercent, true},
		{"rate", in.Schedule.TokenReleaseRate, true},
		{"admin_comp", in.CompensationPercent, true},
	}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.v) || math.IsInf(f.v, 0):
			return invalidField(path, prefix+"."+f.name, "must be a finite number")
		case f.v < 0:
			return invalidField(path, prefix+"."+f.name, "must not be negative")
		case f.percent && f.v > 100:
			return invalidField(path, prefix+"."+f.name, "must be at most 100")
		}
	}
	return nil
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "scenariofile.load",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
