package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-burp/pkg/burp"
)

func newCurlCmd(a *app) *cobra.Command {
	var (
		sets   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "curl COMMAND",
		Short: "Convert a curl command to a request capture",
		Example: `  shape-burp curl 'curl -X POST https://api.example.com/login -d "u=%USER%"'
  shape-burp curl -- -H 'Accept: */*' https://example.com/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := burp.ParseCurl(strings.Join(args, " "))
			if err != nil {
				return err
			}
			logWarnings(a.log, "curl", result.Warnings)

			req := result.Request
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
