package cli

import (
	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/infra/fsworkspace"
	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/infra/workspacefinder"
	"github.com/alignedworks/cvx/internal/ui/tui"
)

func tuiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive release and budget calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(_ *cobra.Command, opts *rootOptions) error {
	ws, err := loadWorkspace(opts.workspace, false)
	if err != nil {
		return err
	}

	deps := tui.Deps{
		WorkspaceLocator:     workspacefinder.NewFinder(),
		WorkspaceInitializer: fsworkspace.NewInitializer(),
		Guard:                ws.guard,
		Cycles:               ws.cycles(),
		Logger:               logger.L(),
		Debug:                opts.debug,
	}
	return tui.Run(deps)
}
