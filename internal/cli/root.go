package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wesleyorama2/covergen/internal/config"
	"github.com/wesleyorama2/covergen/internal/output"
)

var version = "0.1.0"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configFile string
	format     string
	noColor    bool
	verbose    bool

	logger *zap.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:     "covergen",
		Short:   "Coverage-test generation targets for the SDK emitter",
		Version: version,
		Long: `covergen holds the named targets the coverage-test emitter is run with:
the emitter script, its ordered overrides, the template, the abstract test
definitions, and where generated files are written.

Targets are built in; more can be added with --config pointing at a YAML or
JSON targets file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Targets file merged over the built-in targets")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newFetchCmd(opts))
	cmd.AddCommand(newPathCmd(opts))

	return cmd
}

// Execute runs the root command and prints any error to stderr
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// registry returns the built-in targets merged with --config
func (o *rootOptions) registry() (*config.Registry, error) {
	reg := config.Builtin()
	if o.configFile == "" {
		return reg, nil
	}

	overlay, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	o.logger.Debug("loaded targets file",
		zap.String("path", o.configFile),
		zap.Strings("targets", overlay.Names()))

	return config.Merge(reg, overlay)
}

// formatter builds an output formatter for stdout
func (o *rootOptions) formatter() (*output.Formatter, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, output.NoColorFor(os.Stdout, o.noColor)), nil
}

// loadTarget resolves an optional positional target name
func (o *rootOptions) loadTarget(args []string) (*config.Registry, config.Record, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, config.Record{}, err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	r, err := reg.Load(name)
	if err != nil {
		return nil, config.Record{}, err
	}
	return reg, r, nil
}
