package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/spreport/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagVerbose    bool
	flagQuiet      bool
)

// CLIFlags is the snapshot of persistent flags taken before a command runs.
type CLIFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// CLIContext carries everything a subcommand needs after the root pre-run:
// flags, the resolved configuration, environment overrides, and a logger.
type CLIContext struct {
	Flags  CLIFlags
	Cfg    *config.Resolved
	Env    config.EnvOverrides
	Logger *slog.Logger
}

type cliContextKey struct{}

// cliContextFrom returns the CLIContext stored by the root pre-run, or nil.
func cliContextFrom(ctx context.Context) *CLIContext {
	cc, _ := ctx.Value(cliContextKey{}).(*CLIContext)

	return cc
}

// mustCLIContext is cliContextFrom for commands that always run after the
// root pre-run. A missing context is a programming error.
func mustCLIContext(ctx context.Context) *CLIContext {
	cc := cliContextFrom(ctx)
	if cc == nil {
		panic("BUG: CLIContext not initialized; PersistentPreRunE did not run")
	}

	return cc
}

// newHTTPClient returns the client used for every SharePoint request.
// A zero timeout means none.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// newRootCmd builds the fully assembled root command. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "spreport",
		Short:   "SharePoint Online file reporting tool",
		Long:    "Walks a SharePoint Online document library and reports every file with its metadata.",
		Version: version,
		// Errors are printed once by exitOnError.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "only log errors and suppress status output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer
// override chain and stores a CLIContext in the command's context.
func loadConfig(cmd *cobra.Command) error {
	flags := CLIFlags{
		ConfigPath: flagConfigPath,
		Verbose:    flagVerbose,
		Quiet:      flagQuiet,
	}

	env := config.ReadEnvOverrides()

	resolved, err := config.Resolve(env, cliOverrides(cmd, flags.ConfigPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cc := &CLIContext{
		Flags:  flags,
		Cfg:    resolved,
		Env:    env,
		Logger: buildLogger(resolved, flags),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))

	return nil
}

// cliOverrides collects the command-local flags the user explicitly set.
// Commands that do not define a flag simply contribute nothing for it.
func cliOverrides(cmd *cobra.Command, configPath string) config.CLIOverrides {
	cli := config.CLIOverrides{ConfigPath: configPath}
	flags := cmd.Flags()

	if flags.Changed("user") {
		v, _ := flags.GetString("user")
		cli.Username = &v
	}

	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		cli.Format = &v
	}

	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		cli.Output = &v
	}

	if f := flags.Lookup("max-depth"); f != nil && f.Changed {
		if d, ok := f.Value.(*depthValue); ok {
			v := int(*d)
			cli.MaxDepth = &v
		}
	}

	return cli
}

// buildLogger creates the process logger. The config-file level is the
// baseline; --verbose and --quiet override it. With log_format "auto" a
// terminal gets text and anything else gets JSON.
func buildLogger(cfg *config.Resolved, flags CLIFlags) *slog.Logger {
	fd := os.Stderr.Fd()

	return newLogger(os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), cfg, flags)
}

func newLogger(w io.Writer, terminal bool, cfg *config.Resolved, flags CLIFlags) *slog.Logger {
	level := slog.LevelInfo
	format := "auto"

	if cfg != nil {
		switch cfg.Logging.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		format = cfg.Logging.LogFormat
	}

	if flags.Verbose {
		level = slog.LevelDebug
	}

	if flags.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if format == "json" || (format == "auto" && !terminal) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
