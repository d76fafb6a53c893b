package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alignedworks/cvx/internal/infra/cvxapi"
	"github.com/alignedworks/cvx/internal/usecase/selectfields"
)

func apiCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "api",
		Short: "Call platform endpoints directly",
	}
	c.AddCommand(apiGetCmd(opts))
	return c
}

func apiGetCmd(opts *rootOptions) *cobra.Command {
	var (
		selectors []string
		format    string
	)

	c := &cobra.Command{
		Use:     "get PATH",
		Short:   "GET an API path and print the body or selected fields",
		Example: "  cvx api get /api/collaboratives/42 --select name=$.name --select balance=$.launchTokenBalance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			rules := make([]selectfields.Rule, 0, len(selectors))
			for _, s := range selectors {
				r, err := selectfields.ParseRule(s)
				if err != nil {
					return err
				}
				rules = append(rules, r)
			}

			return withSession(opts, func(_ *workspaceCtx, api *cvxapi.Client) error {
				body, err := api.GetRaw(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(rules) == 0 {
					_, err := out.Write(body)
					if err == nil && (len(body) == 0 || body[len(body)-1] != '\n') {
						_, err = fmt.Fprintln(out)
					}
					return err
				}

				fields := selectfields.Apply(body, rules)
				if err := output(out, format, fields, func(w io.Writer) { printFields(w, fields) }); err != nil {
					return err
				}
				for _, f := range fields {
					if !f.OK {
						return fmt.Errorf("select %q (%s): %s", f.Name, f.Expr, f.Message)
					}
				}
				return nil
			})
		},
	}

	c.Flags().StringArrayVar(&selectors, "select", nil, "Field to print as name=$.jsonpath (repeatable)")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format for --select: pretty|json")
	return c
}

func printFields(w io.Writer, fields []selectfields.Field) {
	for _, f := range fields {
		if f.OK {
			fmt.Fprintf(w, "%s = %s\n", f.Name, f.Value)
			continue
		}
		fmt.Fprintf(w, "%s ! %s\n", f.Name, f.Message)
	}
}
