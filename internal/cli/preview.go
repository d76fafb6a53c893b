package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/infra/scenariofile"
	"github.com/alignedworks/cvx/internal/tokenmath"
	"github.com/alignedworks/cvx/internal/usecase"
)

func previewCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "preview",
		Short: "Preview token release schedules and budget allocations",
	}
	c.AddCommand(
		previewReleaseCmd(opts),
		previewBudgetCmd(opts),
		previewScenariosCmd(opts),
	)
	return c
}

func previewReleaseCmd(opts *rootOptions) *cobra.Command {
	var (
		in     tokenmath.AdminCompensationInput
		collab string
		format string
	)

	c := &cobra.Command{
		Use:   "release",
		Short: "Project the launch-token release over the next cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := checkCycles(in.Schedule.CycleCount); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts.workspace, collab != "")
			if err != nil {
				return err
			}

			if collab == "" {
				s := usecase.NewPreviewRelease(nil, ws.cycles()).Execute(in)
				return output(cmd.OutOrStdout(), format, s, func(w io.Writer) { printSchedule(w, s) })
			}

			api, err := ws.sessionAPI()
			if err != nil {
				return err
			}
			uc := usecase.NewPreviewRelease(api, ws.cycles())
			if in.Schedule.CycleCount > 0 {
				uc = usecase.NewPreviewRelease(api, in.Schedule.CycleCount)
			}
			co, s, err := uc.ForCollaborative(cmd.Context(), collab)
			ws.remember(api, err)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), format, s, func(w io.Writer) {
				fmt.Fprintf(w, "Collaborative: %s\n", co.Name)
				printSchedule(w, s)
			})
		},
	}

	f := c.Flags()
	f.Float64Var(&in.Schedule.TokensCreated, "tokens", 0, "Launch tokens created")
	f.Float64Var(&in.Schedule.TokensPriorWorkPercent, "prior-work", 0, "Percent reserved for prior work (0-100)")
	f.Float64Var(&in.Schedule.TokenReleaseRate, "rate", 0, "Percent of the remaining pool released per cycle (0-100)")
	f.Float64Var(&in.CompensationPercent, "admin-comp", 0, "Admin compensation percent of each release (0 = none)")
	f.IntVar(&in.Schedule.CycleCount, "cycles", 0, "Number of cycles (default from cvx.yaml)")
	f.StringVar(&collab, "collab", "", "Preview an existing collaborative by id (requires login)")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	c.MarkFlagsMutuallyExclusive("collab", "tokens")
	c.MarkFlagsOneRequired("collab", "tokens")
	return c
}

func previewBudgetCmd(opts *rootOptions) *cobra.Command {
	var (
		balance   float64
		amount    float64
		committed float64
		collab    string
		project   string
		format    string
	)

	c := &cobra.Command{
		Use:   "budget",
		Short: "Preview an allocation against an available balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			remote := collab != "" || project != ""
			ws, err := loadWorkspace(opts.workspace, remote)
			if err != nil {
				return err
			}

			var p usecase.BudgetPreview
			switch {
			case !remote:
				var bal *float64
				if cmd.Flags().Changed("balance") {
					bal = tokenmath.Balance(balance)
				}
				p = usecase.NewBudgetPreview("", bal, amount, committed)
			default:
				api, aerr := ws.sessionAPI()
				if aerr != nil {
					return aerr
				}
				uc := usecase.NewPreviewBudget(api, api)
				if collab != "" {
					p, err = uc.ForProject(cmd.Context(), collab, amount, committed)
				} else {
					p, err = uc.ForMilestone(cmd.Context(), project, amount)
				}
				ws.remember(api, err)
				if err != nil {
					return err
				}
			}
			return output(cmd.OutOrStdout(), format, p, func(w io.Writer) { printBudget(w, p) })
		},
	}

	f := c.Flags()
	f.Float64Var(&balance, "balance", 0, "Total available balance")
	f.Float64Var(&amount, "amount", 0, "Requested amount")
	f.Float64Var(&committed, "committed", 0, "Amount already committed (e.g. admin pay)")
	f.StringVar(&collab, "collab", "", "Use a collaborative's launch-token balance (requires login)")
	f.StringVar(&project, "project", "", "Use a project's balance (requires login)")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	c.MarkFlagsMutuallyExclusive("balance", "collab", "project")
	_ = c.MarkFlagRequired("amount")
	return c
}

func previewScenariosCmd(opts *rootOptions) *cobra.Command {
	var (
		base   tokenmath.AdminCompensationInput
		rates  []float64
		file   string
		format string
	)

	c := &cobra.Command{
		Use:   "scenarios",
		Short: "Compare release schedules across several release rates",
		Long: "Compare release schedules side by side. Either vary --rates over one token supply,\n" +
			"or read named scenarios from a YAML table with --file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := checkCycles(base.Schedule.CycleCount); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts.workspace, false)
			if err != nil {
				return err
			}

			var scenarios []tokenmath.Scenario
			if file != "" {
				tbl, err := scenariofile.Load(file)
				if err != nil {
					return err
				}
				cycles := tbl.Cycles
				if base.Schedule.CycleCount > 0 {
					cycles = base.Schedule.CycleCount
				}
				if cycles <= 0 {
					cycles = ws.cycles()
				}
				for _, sc := range tbl.Scenarios {
					sc.Input.Schedule.CycleCount = cycles
					scenarios = append(scenarios, sc)
				}
			} else {
				if !cmd.Flags().Changed("tokens") {
					return fmt.Errorf("--tokens is required unless --file is given")
				}
				if len(rates) == 0 {
					return fmt.Errorf("at least one --rates value is required")
				}
				if base.Schedule.CycleCount <= 0 {
					base.Schedule.CycleCount = ws.cycles()
				}
				for _, r := range rates {
					in := base
					in.Schedule.TokenReleaseRate = r
					scenarios = append(scenarios, tokenmath.Scenario{
						Name:  "rate " + tokenmath.FormatPercent(r),
						Input: in,
					})
				}
			}
			logger.L().Debug("preview.scenarios", "count", len(scenarios), "file", file)

			results, err := tokenmath.ProjectScenarios(cmd.Context(), scenarios)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), format, results, func(w io.Writer) { printScenarios(w, results) })
		},
	}

	f := c.Flags()
	f.Float64Var(&base.Schedule.TokensCreated, "tokens", 0, "Launch tokens created")
	f.Float64Var(&base.Schedule.TokensPriorWorkPercent, "prior-work", 0, "Percent reserved for prior work (0-100)")
	f.Float64SliceVar(&rates, "rates", nil, "Comma-separated release rates to compare, e.g. 5,10,20")
	f.Float64Var(&base.CompensationPercent, "admin-comp", 0, "Admin compensation percent of each release (0 = none)")
	f.IntVar(&base.Schedule.CycleCount, "cycles", 0, "Number of cycles (default from the file, then cvx.yaml)")
	f.StringVar(&file, "file", "", "YAML scenario table to compare")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	c.MarkFlagsMutuallyExclusive("file", "rates")
	c.MarkFlagsMutuallyExclusive("file", "tokens")
	c.MarkFlagsMutuallyExclusive("file", "prior-work")
	c.MarkFlagsMutuallyExclusive("file", "admin-comp")
	return c
}

// checkCycles rejects a --cycles value the projection would have to clamp.
// Zero means "use the workspace default".
func checkCycles(n int) error {
	if n < 0 || n > tokenmath.MaxCycleCount {
		return &domain.OpError{
			Op:   "cli.preview",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("--cycles must be between 1 and %d, got %d: %w", tokenmath.MaxCycleCount, n, domain.ErrInvalidConfig),
		}
	}
	return nil
}

func printScenarios(w io.Writer, results []tokenmath.ScenarioResult) {
	if len(results) == 0 {
		return
	}
	headers := []string{"Scenario"}
	for _, c := range results[0].Schedule.Cycles {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "Total", "Unreleased")

	t := newTable(headers...)
	for _, r := range results {
		row := []string{r.Name}
		for _, c := range r.Schedule.Cycles {
			row = append(row, tokenmath.Grouped(c.Released))
		}
		row = append(row, tokenmath.Grouped(r.Schedule.TotalReleased), tokenmath.Grouped(r.Schedule.Unreleased))
		t.Row(row...)
	}
	fmt.Fprintln(w, t.String())
}
