package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/cvxapi"
	"github.com/alignedworks/cvx/internal/usecase"
)

func milestonesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "milestones",
		Short: "List and create project milestones",
	}
	c.AddCommand(milestonesListCmd(opts), milestonesCreateCmd(opts))
	return c
}

func milestonesListCmd(opts *rootOptions) *cobra.Command {
	var (
		project string
		format  string
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List the milestones of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				list, err := usecase.NewBrowse(api, ws.cycles()).ListMilestones(cmd.Context(), project)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, list, func(w io.Writer) {
					if len(list) == 0 {
						fmt.Fprintln(w, "(no milestones found)")
						return
					}
					t := newTable("ID", "Title", "Status", "Payout", "Assignee", "Due")
					for _, m := range list {
						due := "-"
						if m.DueDate != nil {
							due = m.DueDate.Format(time.DateOnly)
						}
						t.Row(m.ID, m.Title, string(m.Status), groupedAmount(m.Payout), orDash(m.AssigneeEmail), due)
					}
					fmt.Fprintln(w, t.String())
				})
			})
		},
	}
	c.Flags().StringVar(&project, "project", "", "Project id (required)")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	_ = c.MarkFlagRequired("project")
	return c
}

func milestonesCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		d      domain.MilestoneDraft
		due    string
		force  bool
		format string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a milestone after previewing its payout against the project balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if due != "" {
				t, err := time.Parse(time.DateOnly, due)
				if err != nil {
					return fmt.Errorf("invalid --due %q (expected YYYY-MM-DD): %w", due, err)
				}
				d.DueDate = &t
			}
			return withSession(opts, func(_ *workspaceCtx, api *cvxapi.Client) error {
				m, preview, err := usecase.NewCreateMilestone(api, api).Execute(cmd.Context(), d, force)
				if err != nil {
					return blockedByAdvisories(cmd.OutOrStdout(), err)
				}
				payload := struct {
					Milestone domain.Milestone      `json:"milestone"`
					Preview   usecase.BudgetPreview `json:"preview"`
				}{m, preview}
				return output(cmd.OutOrStdout(), format, payload, func(w io.Writer) {
					printBudget(w, preview)
					fmt.Fprintf(w, "\nCreated milestone %s (id %s)\n", m.Title, m.ID)
				})
			})
		},
	}

	f := c.Flags()
	f.StringVar(&d.ProjectID, "project", "", "Project id (required)")
	f.StringVar(&d.Title, "title", "", "Milestone title (required)")
	f.StringVar(&d.Description, "description", "", "What has to be delivered")
	f.Float64Var(&d.Payout, "payout", 0, "Launch tokens paid on approval (required)")
	f.StringVar(&d.AssigneeID, "assignee", "", "Member id to assign")
	f.StringVar(&due, "due", "", "Due date, YYYY-MM-DD")
	f.BoolVar(&force, "force", false, "Submit even when the preview raises advisories")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	_ = c.MarkFlagRequired("project")
	_ = c.MarkFlagRequired("title")
	_ = c.MarkFlagRequired("payout")
	return c
}
