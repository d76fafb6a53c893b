package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/infra/workspacefinder"
)

type rootOptions struct {
	workspace string
	debug     bool

	cleanup func() error
}

func Execute() {
	cmd, opts := newRootCmd()
	err := cmd.Execute()
	opts.closeLogs()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "cvx",
		Short:        "cvx: launch-token previews and Collaborative Value Exchange client",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			opts.setupLogs()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to .cvx/logs/cvx.log")

	cmd.AddCommand(
		initCmd(opts),
		previewCmd(opts),
		loginCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		collabsCmd(opts),
		projectsCmd(opts),
		milestonesCmd(opts),
		invitationsCmd(opts),
		apiCmd(opts),
		tuiCmd(opts),
		versionCmd(),
	)
	return cmd, opts
}

// setupLogs logs into the workspace when there is one and the working
// directory otherwise. Logging never blocks a command.
func (o *rootOptions) setupLogs() {
	if o.cleanup != nil {
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)

	logRoot := wd
	if root, rerr := resolveWorkspaceRoot(o.workspace); rerr == nil && root != "" {
		logRoot = root
	} else if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
		logRoot = root
	}

	cleanup, _ := logger.Setup(logger.Config{
		Root:  logRoot,
		Debug: o.debug,
	})
	o.cleanup = cleanup
}

func (o *rootOptions) closeLogs() {
	if o.cleanup != nil {
		_ = o.cleanup()
		o.cleanup = nil
	}
}
