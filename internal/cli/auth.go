package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/usecase"
)

func loginCmd(opts *rootOptions) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the platform and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.workspace, true)
			if err != nil {
				return err
			}
			if !passwordStdin {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			}
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			api, err := ws.newAPI(nil)
			if err != nil {
				return err
			}
			s, err := usecase.NewLogin(api, ws.sessions).Execute(cmd.Context(), domain.Credentials{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			logger.L().Info("auth.login", "user", s.User.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.User.DisplayName())
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "Account email (required)")
	c.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin without prompting")
	_ = c.MarkFlagRequired("email")
	return c
}

// readPassword takes the first line of r.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.workspace, true)
			if err != nil {
				return err
			}
			s, err := ws.sessions.Load()
			if err != nil {
				return err
			}
			api, err := ws.newAPI(s.Cookies)
			if err != nil {
				return err
			}
			if err := usecase.NewLogout(api, ws.sessions, logger.L()).Execute(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(opts *rootOptions) *cobra.Command {
	var (
		verify bool
		format string
	)

	c := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts.workspace, true)
			if err != nil {
				return err
			}

			var uc *usecase.WhoAmI
			var id usecase.Identity
			if verify {
				api, aerr := ws.sessionAPI()
				if aerr != nil {
					return aerr
				}
				uc = usecase.NewWhoAmI(ws.guard, api)
				id, err = uc.Execute(cmd.Context(), true)
				ws.remember(api, err)
			} else {
				uc = usecase.NewWhoAmI(ws.guard, nil)
				id, err = uc.Execute(cmd.Context(), false)
			}
			if err != nil {
				return fmt.Errorf("%w (tip: run `cvx login`)", err)
			}

			return output(cmd.OutOrStdout(), format, id, func(w io.Writer) {
				fmt.Fprintf(w, "User:      %s <%s>\n", id.User.DisplayName(), id.User.Email)
				fmt.Fprintf(w, "Role:      %s\n", orDash(string(id.User.Role)))
				fmt.Fprintf(w, "Logged in: %s\n", id.LoginAt.Local().Format(time.RFC3339))
				if id.ExpiresAt != nil {
					fmt.Fprintf(w, "Idle until %s\n", id.ExpiresAt.Local().Format(time.RFC3339))
				}
			})
		},
	}

	c.Flags().BoolVar(&verify, "verify", false, "Ask the server instead of trusting the stored session")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")
	return c
}
