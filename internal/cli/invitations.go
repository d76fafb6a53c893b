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

func invitationsCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:     "invitations",
		Aliases: []string{"invites"},
		Short:   "List and answer collaborative invitations",
	}
	c.AddCommand(
		invitationsListCmd(opts),
		invitationRespondCmd(opts, domain.InvitationAccept, "Accept an invitation"),
		invitationRespondCmd(opts, domain.InvitationDecline, "Decline an invitation"),
	)
	return c
}

func invitationsListCmd(opts *rootOptions) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "list",
		Short: "List pending invitations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				list, err := usecase.NewBrowse(api, ws.cycles()).ListInvitations(cmd.Context())
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), format, list, func(w io.Writer) {
					if len(list) == 0 {
						fmt.Fprintln(w, "(no pending invitations)")
						return
					}
					t := newTable("ID", "Collaborative", "From", "Sent")
					for _, inv := range list {
						t.Row(inv.ID, inv.CollabName, inv.InviterEmail, inv.CreatedAt.Format(time.DateOnly))
					}
					fmt.Fprintln(w, t.String())
				})
			})
		},
	}
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}

func invitationRespondCmd(opts *rootOptions, resp domain.InvitationResponse, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(resp) + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(opts, func(ws *workspaceCtx, api *cvxapi.Client) error {
				if err := usecase.NewBrowse(api, ws.cycles()).RespondInvitation(cmd.Context(), args[0], resp); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invitation %s: %s\n", args[0], resp)
				return nil
			})
		},
	}
}
