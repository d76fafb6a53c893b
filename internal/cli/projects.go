package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/cvxapi"
	"github.com/alignedworks/cvx/internal/usecase"
)

func projectsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "projects",
		Short: "List and launch projects",
	}
	c.AddCommand(projectsListCmd(opts), projectsLaunchCmd(opts))
	return c
}

func projectsListCmd(opts *rootOptions) *cobra.Command {
	var (
		collab string
		format string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List the projects of a collaborative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				list, err := usecase.NewBrowse(api, ws.cycles()).ListProjects(cmd.Context(), collab)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, list, func(w io.Writer) { printProjects(w, list) })
			})
		},
	}
	c.Flags().StringVar(&collab, "collab", "", "Collaborative id (required)")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	_ = c.MarkFlagRequired("collab")
	return c
}

func projectsLaunchCmd(opts *rootOptions) *cobra.Command {
	var (
		l      domain.ProjectLaunch
		force  bool
		format string
	)

	c := &cobra.Command{
		Use:   "launch",
		Short: "Launch a project after previewing its budget against the collaborative balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(_ *workspaceCtx, api *cvxapi.Client) error {
				p, preview, err := usecase.NewLaunchProject(api, api).Execute(cmd.Context(), l, force)
				if err != nil {
					return blockedByAdvisories(cmd.OutOrStdout(), err)
				}
				payload := struct {
					Project domain.Project        `json:"project"`
					Preview usecase.BudgetPreview `json:"preview"`
				}{p, preview}
				return output(cmd.OutOrStdout(), format, payload, func(w io.Writer) {
					printBudget(w, preview)
					fmt.Fprintf(w, "\nLaunched %s (id %s, status %s)\n", p.Name, p.ID, orDash(string(p.Status)))
				})
			})
		},
	}

	f := c.Flags()
	f.StringVar(&l.CollabID, "collab", "", "Collaborative id (required)")
	f.StringVar(&l.Name, "name", "", "Project name (required)")
	f.StringVar(&l.Description, "description", "", "Short description")
	f.Float64Var(&l.Budget, "budget", 0, "Launch tokens requested (required)")
	f.Float64Var(&l.AdminPay, "admin-pay", 0, "Part of the budget committed to the project admin")
	f.BoolVar(&force, "force", false, "Submit even when the preview raises advisories")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	_ = c.MarkFlagRequired("collab")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("budget")
	return c
}

// blockedByAdvisories shows the preview behind an advisory block before
// returning the error.
func blockedByAdvisories(w io.Writer, err error) error {
	var adv *usecase.AdvisoryError
	if !errors.As(err, &adv) {
		return err
	}
	printBudget(w, adv.Preview)
	return fmt.Errorf("%w (use --force to submit anyway)", err)
}
