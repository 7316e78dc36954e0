// Package cli implements the shape-burp command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-burp/pkg/burp"
)

// app carries the resolved configuration and logger into every command.
type app struct {
	cfg *Config
	log *slog.Logger

	configPath string
	logLevel   string
	timeout    string
	latin1     bool
	prepare    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd(version, commit string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "shape-burp",
		Short: "Parse, bind and replay Burp-style HTTP request captures",
		Long: `shape-burp loads raw HTTP request captures or curl commands,
substitutes placeholder tokens and prints or dispatches the result.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file path")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&a.timeout, "timeout", "", "dispatch timeout, e.g. 5s")
	pf.BoolVar(&a.latin1, "latin1", false, "encode binding values as ISO-8859-1")
	pf.BoolVar(&a.prepare, "prepare", true, "recompute Content-Length before output")

	rootCmd.AddCommand(
		newParseCmd(a),
		newBindCmd(a),
		newCurlCmd(a),
		newSendCmd(a),
	)
	return rootCmd
}

// Execute runs the command tree and exits non-zero on error.
func Execute(version, commit string) {
	if err := NewRootCmd(version, commit).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup resolves the config: defaults, then file, then environment, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()
	if a.configPath != "" {
		loaded, err := LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("latin1") {
		cfg.Latin1 = a.latin1
	}
	if flags.Changed("prepare") {
		cfg.Prepare = a.prepare
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.log.Debug("configuration loaded", "config", a.configPath, "timeout", cfg.Timeout, "prepare", cfg.Prepare)
	return nil
}

// load reads and parses a capture. "-" reads standard input.
func (a *app) load(cmd *cobra.Command, name string) (*burp.Request, error) {
	r := cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		defer f.Close()
		r = f
	}

	limit, err := a.cfg.MaxInputBytes()
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		r = io.LimitReader(r, int64(limit)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if limit > 0 && uint64(len(data)) > limit {
		return nil, fmt.Errorf("%s is larger than max_input %s", name, humanize.IBytes(limit))
	}

	result, err := burp.ParseWithWarnings(data)
	if err != nil {
		return nil, err
	}
	logWarnings(a.log, name, result.Warnings)
	return result.Request, nil
}

// bind applies the configured bindings, then the --set pairs. When prepare
// is enabled it then recomputes Content-Length, but only for requests that
// have a body or already carry the header, so a bodiless GET stays as is.
func (a *app) bind(req *burp.Request, sets []string) error {
	bindings := make(map[string]string, len(a.cfg.Bindings)+len(sets))
	for k, v := range a.cfg.Bindings {
		bindings[k] = v
	}
	for _, s := range sets {
		placeholder, value, ok := strings.Cut(s, "=")
		if !ok || placeholder == "" {
			return fmt.Errorf("invalid --set %q, want PLACEHOLDER=VALUE", s)
		}
		bindings[placeholder] = value
	}

	if a.cfg.Latin1 {
		for k, v := range bindings {
			b, err := burp.EncodeLatin1(v)
			if err != nil {
				return fmt.Errorf("binding %s: %w", k, err)
			}
			bindings[k] = string(b)
		}
	}

	req.BindAll(bindings)
	a.log.Debug("bindings applied", "count", len(bindings))
	if a.cfg.Prepare && (len(req.Body) > 0 || req.Headers.HasFold("Content-Length")) {
		burp.Prepare(req)
	}
	return nil
}
