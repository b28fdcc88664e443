// Package xlsparser extracts a named time series from a loosely structured
// report sheet, aggregates it by category and writes native and hourly CSVs
// plus a reconciliation report.
package xlsparser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/aggregate"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/config"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/parser"
)

// DuplicatePolicy decides what happens when two headers normalize to one name.
type DuplicatePolicy string

const (
	// DuplicateOverwrite keeps the later column's values in the earlier column's position.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
	// DuplicateError fails the extraction with ErrDuplicateColumn.
	DuplicateError DuplicatePolicy = "error"
)

// Options configures a run.
type Options struct {
	// Sheet is a sheet name or 0-based index.
	Sheet string
	// MappingPath is read by Run; Process takes a built mapping instead.
	MappingPath string
	// AliasesPath is an optional YAML alias file read by Run.
	AliasesPath string
	// Aliases are merged over the aliases file.
	Aliases models.Aliases
	// Skip lists names excluded from aggregation and reconciliation.
	Skip []string
	// Window bounds the anchor search.
	Window models.Window
	// DuplicateColumns selects the header collision policy.
	DuplicateColumns DuplicatePolicy
	// OddLength selects the resampling policy for an odd number of timestamps.
	OddLength aggregate.OddPolicy
	// InputRoot and OutputRoot derive the output path when none is given.
	InputRoot  string
	OutputRoot string
	// ReportExt is the extension of the report file.
	ReportExt string
	// Logger receives progress and diagnostics. Nil discards them.
	Logger *zap.Logger
	// Observer receives per-stage timings. Nil logs them at debug level.
	Observer Observer
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Sheet:            config.DefaultSheet,
		MappingPath:      "inputs/mapping/mapping.csv",
		Window:           models.DefaultWindow(),
		DuplicateColumns: DuplicateOverwrite,
		OddLength:        aggregate.OddError,
		InputRoot:        "inputs",
		OutputRoot:       "outputs",
		ReportExt:        ".report",
	}
}

// OptionsFromConfig converts a loaded config into Options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()
	opts.Sheet = cfg.Sheet
	opts.MappingPath = cfg.Mapping
	opts.AliasesPath = cfg.Aliases
	opts.Skip = cfg.Skip
	opts.InputRoot = cfg.InputRoot
	opts.OutputRoot = cfg.OutputRoot
	opts.ReportExt = cfg.ReportExt
	opts.DuplicateColumns = DuplicatePolicy(cfg.DuplicateColumns)

	if len(cfg.AliasesInline) > 0 {
		opts.Aliases = models.Aliases(cfg.AliasesInline)
	}

	if cfg.SearchWindow != "" {
		w, err := parser.ParseWindow(cfg.SearchWindow)
		if err != nil {
			return opts, fmt.Errorf("search_window: %w", err)
		}
		opts.Window = w
	}

	odd, err := aggregate.ParseOddPolicy(cfg.OddLength)
	if err != nil {
		return opts, err
	}
	opts.OddLength = odd
	return opts, nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) observer(logger *zap.Logger) Observer {
	if o.Observer != nil {
		return o.Observer
	}
	return NewLogObserver(logger)
}
