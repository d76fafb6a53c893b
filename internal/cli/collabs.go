package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/cvxapi"
	"github.com/alignedworks/cvx/internal/tokenmath"
	"github.com/alignedworks/cvx/internal/usecase"
)

func collabsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "collabs",
		Aliases: []string{"collaboratives"},
		Short:   "Browse, join and propose collaboratives",
	}
	c.AddCommand(
		collabsListCmd(opts),
		collabsShowCmd(opts),
		collabsJoinCmd(opts),
		collabsProposeCmd(opts),
	)
	return c
}

func collabsListCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "list",
		Short: "List collaboratives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				list, err := usecase.NewBrowse(api, ws.cycles()).ListCollaboratives(cmd.Context())
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, list, func(w io.Writer) {
					if len(list) == 0 {
						fmt.Fprintln(w, "(no collaboratives found)")
						return
					}
					t := newTable("ID", "Name", "Status", "Members", "Launch tokens")
					for _, co := range list {
						t.Row(co.ID, co.Name, string(co.Status), fmt.Sprint(co.MemberCount), groupedAmount(co.LaunchTokenBalance))
					}
					fmt.Fprintln(w, t.String())
				})
			})
		},
	}
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func collabsShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "show ID",
		Short: "Show a collaborative with its projects and release preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				d, err := usecase.NewBrowse(api, ws.cycles()).ShowCollaborative(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, d, func(w io.Writer) {
					co := d.Collaborative
					fmt.Fprintf(w, "%s (%s)\n", co.Name, co.Status)
					if co.Description != "" {
						fmt.Fprintf(w, "%s\n", co.Description)
					}
					fmt.Fprintf(w, "Launch-token balance: %s\n\n", groupedAmount(co.LaunchTokenBalance))
					printSchedule(w, d.Schedule)
					fmt.Fprintln(w)
					printProjects(w, d.Projects)
				})
			})
		},
	}
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func collabsJoinCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join ID",
		Short: "Ask to join a collaborative",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				if err := usecase.NewBrowse(api, ws.cycles()).JoinCollaborative(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Join request sent for %s\n", args[0])
				return nil
			})
		},
	}
}

func collabsProposeCmd(opts *rootOptions) *cobra.Command {
	var (
		p      domain.CollaborativeProposal
		dryRun bool
		format string
	)

	c := &cobra.Command{
		Use:   "propose",
		Short: "Propose a new collaborative after previewing its release schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if dryRun {
				ws, err := loadWorkspace(opts.workspace, false)
				if err != nil {
					return err
				}
				s, err := usecase.NewProposeCollaborative(nil, ws.cycles()).Preview(p)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, s, func(w io.Writer) { printSchedule(w, s) })
			}

			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				co, s, err := usecase.NewProposeCollaborative(api, ws.cycles()).Execute(cmd.Context(), p)
				if err != nil {
					return err
				}
				payload := struct {
					Collaborative domain.Collaborative      `json:"collaborative"`
					Schedule      tokenmath.ReleaseSchedule `json:"schedule"`
				}{co, s}
				return output(cmd.OutOrStdout(), format, payload, func(w io.Writer) {
					printSchedule(w, s)
					fmt.Fprintf(w, "\nProposed %s (id %s, status %s)\n", co.Name, co.ID, orDash(string(co.Status)))
				})
			})
		},
	}

	f := c.Flags()
	f.StringVar(&p.Name, "name", "", "Collaborative name (required)")
	f.StringVar(&p.Description, "description", "", "Short description")
	f.Float64Var(&p.TokensCreated, "tokens", 0, "Launch tokens created (required)")
	f.Float64Var(&p.TokensPriorWorkPercent, "prior-work", 0, "Percent reserved for prior work (0-100)")
	f.Float64Var(&p.TokenReleaseRate, "rate", 0, "Percent released per cycle (0-100)")
	f.Float64Var(&p.CollabAdminCompensationPercent, "admin-comp", 0, "Admin compensation percent of each release")
	f.BoolVar(&dryRun, "dry-run", false, "Validate and preview without submitting")
	f.StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("tokens")
	return c
}

func printProjects(w io.Writer, list []domain.Project) {
	if len(list) == 0 {
		fmt.Fprintln(w, "(no projects found)")
		return
	}
	t := newTable("ID", "Name", "Status", "Budget", "Admin pay", "Balance")
	for _, p := range list {
		t.Row(p.ID, p.Name, string(p.Status), groupedAmount(p.Budget), groupedAmount(p.AdminPay), groupedAmount(p.Balance))
	}
	fmt.Fprintln(w, t.String())
}

// groupedAmount renders a server-side amount the way the math rounds it.
func groupedAmount(v float64) string {
	return tokenmath.Grouped(int64(tokenmath.Round(tokenmath.Amount(v))))
}
