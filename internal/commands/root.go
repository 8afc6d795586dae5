package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/spendwise/internal/buildinfo"
	"github.com/cleared-dev/spendwise/internal/config"
	"github.com/cleared-dev/spendwise/internal/importer"
	"github.com/cleared-dev/spendwise/internal/logger"
	"github.com/cleared-dev/spendwise/internal/pipeline"
)

// options are the flags shared by every command.
type options struct {
	configPath string
	outputDir  string
	urlPrefix  string
	seed       uint64
	workers    int
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// The root command itself runs the analysis and prints the JSON result.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "spendwise <file> <target-savings>",
		Short:   "Tier spending, forecast it, and plan savings from a bank export",
		Version: buildinfo.String(),
		Args:    cobra.ExactArgs(2),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := analyze(cmd, opts, args[0], args[1])
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(state.Result)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to spendwise.yaml")
	f.StringVar(&opts.outputDir, "output-dir", "", "directory for chart images (cleared on every run)")
	f.StringVar(&opts.urlPrefix, "url-prefix", "", `prefix for chart references; "" returns file paths`)
	f.Uint64Var(&opts.seed, "seed", 0, "resampling seed")
	f.IntVar(&opts.workers, "workers", 0, "concurrent model-selection jobs")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")

	rootCmd.AddCommand(newReportCommand(opts))
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// resolveConfig layers flags that were set on top of the file and
// environment configuration.
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Artifacts.Dir = opts.outputDir
	}
	if flags.Changed("url-prefix") {
		cfg.Artifacts.URLPrefix = opts.urlPrefix
	}
	if flags.Changed("seed") {
		cfg.Selection.Seed = opts.seed
	}
	if flags.Changed("workers") {
		cfg.Selection.Workers = opts.workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// analyze runs the pipeline for one export and target.
func analyze(cmd *cobra.Command, opts *options, path, rawTarget string) (*pipeline.State, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	target, err := parseTarget(rawTarget)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	cliLog := logger.For(ctx, logger.ComponentCLI)
	cliLog.Info().
		Str("file", path).
		Str("target", target.String()).
		Str("output_dir", cfg.Artifacts.Dir).
		Uint64("seed", cfg.Selection.Seed).
		Msg("starting analysis")

	return pipeline.New(cfg).Run(ctx, path, target)
}

// parseTarget reads a positive savings target.
func parseTarget(s string) (decimal.Decimal, error) {
	target, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: target savings %q is not a number", importer.ErrInput, s)
	}
	if !target.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: target savings must be positive, got %s", importer.ErrInput, s)
	}
	return target, nil
}

// WriteError writes the {"error": msg} envelope for err to w.
func WriteError(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
