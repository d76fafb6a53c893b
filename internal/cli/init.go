package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/fsworkspace"
	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/usecase"
)

func initCmd(opts *rootOptions) *cobra.Command {
	var (
		force bool
		spec  domain.WorkspaceSpec
	)

	c := &cobra.Command{
		Use:   "init",
		Short: "Create cvx.yaml and the .cvx state directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := strings.TrimSpace(opts.workspace)
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid workspace path: %w", err)
			}
			spec.Root = root

			res, err := usecase.NewInitWorkspace(fsworkspace.NewInitializer(), logger.L()).Execute(spec, force)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Initialized cvx workspace in %s\n", root)
			for _, f := range res.Written {
				fmt.Fprintf(w, "  wrote %s\n", f)
			}
			for _, f := range res.Kept {
				fmt.Fprintf(w, "  kept  %s (use --force to overwrite)\n", f)
			}
			return nil
		},
	}

	f := c.Flags()
	f.BoolVar(&force, "force", false, "Overwrite an existing cvx.yaml")
	f.StringVar(&spec.APIBaseURL, "api-url", "", "Platform API base url (default http://localhost:5000)")
	f.DurationVar(&spec.IdleTimeout, "idle-timeout", 0, "Session idle timeout (default 30m)")
	f.IntVar(&spec.Cycles, "cycles", 0, "Release cycles to preview (default 3)")
	return c
}
