// Package main provides the CLI entry point for xlsparser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/config"
)

var (
	inputPath        string
	outputPath       string
	sheetName        string
	mappingPath      string
	aliasesPath      string
	configPath       string
	writeConfigPath  string
	skipNames        []string
	oddLength        string
	duplicateColumns string
	verbose          bool

	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlsparser",
		Short: "Aggregate generation report spreadsheets by category",
		Long: `xlsparser locates the "Unit Name" header block in a report sheet, extracts
one time series per unit, sums the units into categories using a mapping file
and writes a CSV, an hourly CSV and a report of unmatched names.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE:         run,
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&inputPath, "input", "i", "", "Input spreadsheet file")
	flags.StringVarP(&outputPath, "output", "o", "", "Output CSV path (default: derived from input)")
	flags.StringVarP(&sheetName, "sheet", "s", "", "Sheet name or 0-based index (default from config)")
	flags.StringVarP(&mappingPath, "mapping", "m", "", "Name to category mapping (.csv, .xlsx, .json)")
	flags.StringVar(&aliasesPath, "aliases", "", "YAML file of name aliases")
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&writeConfigPath, "write-config", "", "Save the effective config (file, env and flags merged) to this path")
	flags.StringSliceVar(&skipNames, "skip", nil, "Names excluded from aggregation and report (repeatable)")
	flags.StringVar(&oddLength, "odd-length", "", "Odd timestamp count policy: error, truncate")
	flags.StringVar(&duplicateColumns, "duplicate-columns", "", "Duplicate header policy: overwrite, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	_ = rootCmd.MarkFlagRequired("input")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if writeConfigPath != "" {
		if err := cfg.Save(writeConfigPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info("Config written", zap.String("path", writeConfigPath))
	}

	opts, err := xlsparser.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Logger = logger

	res, err := xlsparser.Run(inputPath, outputPath, opts)
	if err != nil {
		logger.Error("Processing failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%s\n", res.Paths.Native, res.Paths.Hourly, res.Paths.Report)
	return nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("sheet") {
		cfg.Sheet = sheetName
	}
	if flags.Changed("mapping") {
		cfg.Mapping = mappingPath
	}
	if flags.Changed("aliases") {
		cfg.Aliases = aliasesPath
	}
	if flags.Changed("skip") {
		cfg.Skip = append(cfg.Skip, skipNames...)
	}
	if flags.Changed("odd-length") {
		cfg.OddLength = oddLength
	}
	if flags.Changed("duplicate-columns") {
		cfg.DuplicateColumns = duplicateColumns
	}
}
