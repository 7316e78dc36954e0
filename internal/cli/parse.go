package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-burp/pkg/burp"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a request capture and print it",
		Long: `Parse a raw request capture and print it again.

Formats:
  raw      the serialized request (default)
  ast      the YAML view of the request tree
  curl     an equivalent curl command
  summary  the request line, header count and body size`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			return writeRequest(cmd.OutOrStdout(), req, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "raw", "output format (raw, ast, curl, summary)")
	return cmd
}

func writeRequest(w io.Writer, req *burp.Request, format string) error {
	switch format {
	case "raw", "":
		return burp.NewEncoder(w).Encode(req)
	case "ast":
		out, err := yaml.Marshal(burp.NodeToInterface(burp.RequestToNode(req)))
		if err != nil {
			return fmt.Errorf("failed to render ast: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "curl":
		_, err := fmt.Fprintln(w, burp.ToCurl(req))
		return err
	case "summary":
		_, err := fmt.Fprintf(w, "%s\nheaders: %d\nbody: %s\n", req, req.Headers.Len(), humanize.Bytes(uint64(len(req.Body))))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
