package cli

import (
	"github.com/spf13/cobra"
)

func newBindCmd(a *app) *cobra.Command {
	var (
		sets   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "bind FILE",
		Short: "Substitute placeholders in a request capture",
		Example: `  shape-burp bind login.txt --set %USER%=admin --set %PASS%=secret
  cat login.txt | shape-burp bind - -c bindings.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.bind(req, sets); err != nil {
				return err
			}
			return writeRequest(cmd.OutOrStdout(), req, format)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "PLACEHOLDER=VALUE binding (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "raw", "output format (raw, ast, curl, summary)")
	return cmd
}
