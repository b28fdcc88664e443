package xlsparser

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/aggregate"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/output"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/parser"
)

// OutputPaths are the files written by Run.
type OutputPaths struct {
	Native string
	Hourly string
	Report string
}

// Result holds everything a run produced.
type Result struct {
	Source models.Source
	Anchor models.Anchor
	// Table is the extracted series keyed by canonical column name.
	Table *models.Table
	// Native is the per-category series at source granularity.
	Native       *models.AggregateTable
	NativeTotals []float64
	// Hourly pairs consecutive Native rows.
	Hourly       *models.AggregateTable
	HourlyTotals []float64
	Report       models.Report
	// Duplicates lists header names that overwrote an earlier column.
	Duplicates []string
	// Paths is set by Run once the outputs are written.
	Paths OutputPaths
}

// Process runs the in-memory part of the pipeline over an already loaded grid:
// locate the anchor, extract the series, reconcile names, aggregate and resample.
func Process(grid *models.Grid, src models.Source, mapping *models.Mapping, opts Options) (*Result, error) {
	logger := opts.logger()
	obs := opts.observer(logger)
	res := &Result{Source: src}

	err := timed(obs, StageLocateAnchor, func() error {
		anchor, err := parser.LocateAnchor(grid, opts.Window)
		res.Anchor = anchor
		return err
	})
	if err != nil {
		return nil, NewStageError(StageLocateAnchor, src.Path, err)
	}
	logger.Debug("Anchor located",
		zap.Int("row", res.Anchor.Row),
		zap.Int("col", res.Anchor.Col))

	var ext *parser.Extraction
	err = timed(obs, StageExtract, func() error {
		var err error
		ext, err = parser.ExtractSeries(grid, res.Anchor, parser.ExtractOptions{
			Aliases:          mapping.Aliases(),
			RejectDuplicates: opts.DuplicateColumns == DuplicateError,
		})
		return err
	})
	if err != nil {
		return nil, NewStageError(StageExtract, src.Path, err)
	}
	res.Table = ext.Table
	res.Duplicates = ext.Duplicates
	for _, name := range ext.Duplicates {
		logger.Warn("Duplicate column overwritten", zap.String("name", name))
	}
	if ext.NonNumeric > 0 {
		logger.Warn("Non-numeric data cells treated as missing", zap.Int("count", ext.NonNumeric))
	}
	logger.Info("Series extracted",
		zap.Int("timestamps", ext.Table.Len()),
		zap.Int("columns", len(ext.Table.Names())),
		zap.String("range", ext.RegionString()))

	timedStep(obs, StageReconcile, func() {
		unmapped, unused := aggregate.Reconcile(res.Table, mapping)
		res.Report = models.Report{
			Source:   src,
			Range:    ext.RegionString(),
			Unmapped: unmapped,
			Unused:   unused,
		}
	})
	if len(res.Report.Unmapped) > 0 {
		logger.Warn("Columns missing from mapping", zap.Strings("names", res.Report.Unmapped))
	}
	if len(res.Report.Unused) > 0 {
		logger.Warn("Mapping names not found in data", zap.Strings("names", res.Report.Unused))
	}

	timedStep(obs, StageAggregate, func() {
		res.Native = aggregate.Aggregate(res.Table, mapping)
		res.NativeTotals = aggregate.Totals(res.Native)
	})

	err = timed(obs, StageResample, func() error {
		if res.Native.Len()%2 != 0 && opts.OddLength == aggregate.OddTruncate {
			logger.Warn("Dropping trailing half hour",
				zap.Int("timestamps", res.Native.Len()),
				zap.String("label", res.Native.Timestamps[res.Native.Len()-1]))
		}
		hourly, err := aggregate.Resample(res.Native, opts.OddLength)
		if err != nil {
			return err
		}
		res.Hourly = hourly
		res.HourlyTotals = aggregate.Totals(hourly)
		return nil
	})
	if err != nil {
		return nil, NewStageError(StageResample, src.Path, err)
	}

	return res, nil
}

// LoadMapping reads the mapping and alias files named in opts and builds the
// mapping with opts.Aliases merged over the file aliases.
func LoadMapping(opts Options) (*models.Mapping, error) {
	pairs, err := parser.LoadMapping(opts.MappingPath)
	if err != nil {
		return nil, err
	}

	aliases := models.Aliases{}
	if opts.AliasesPath != "" {
		fileAliases, err := parser.LoadAliases(opts.AliasesPath)
		if err != nil {
			return nil, err
		}
		for k, v := range fileAliases {
			aliases[k] = v
		}
	}
	for k, v := range opts.Aliases {
		aliases[k] = v
	}

	return models.NewMapping(pairs, aliases, opts.Skip), nil
}

// Run processes one workbook end to end and writes the native CSV, the hourly
// CSV and the report. An empty outputPath is derived from inputPath.
// Nothing is written unless every computation stage succeeded.
func Run(inputPath, outputPath string, opts Options) (*Result, error) {
	logger := opts.logger().With(
		zap.String("run_id", uuid.NewString()),
		zap.String("input", inputPath))
	opts.Logger = logger
	opts.Observer = opts.observer(logger)

	var mapping *models.Mapping
	err := timed(opts.Observer, StageLoadMapping, func() error {
		var err error
		mapping, err = LoadMapping(opts)
		return err
	})
	if err != nil {
		return nil, NewStageError(StageLoadMapping, opts.MappingPath, err)
	}
	logger.Debug("Mapping loaded", zap.Int("names", mapping.Len()))

	var (
		grid *models.Grid
		src  models.Source
	)
	err = timed(opts.Observer, StageLoadGrid, func() error {
		var err error
		grid, src, err = parser.OpenGrid(inputPath, opts.Sheet)
		return err
	})
	if err != nil {
		return nil, NewStageError(StageLoadGrid, inputPath, err)
	}
	logger.Debug("Sheet loaded",
		zap.String("sheet", src.SheetName),
		zap.Int("rows", grid.Rows()),
		zap.Int("cols", grid.Cols()))

	res, err := Process(grid, src, mapping, opts)
	if err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath = output.DerivePath(inputPath, opts.InputRoot, opts.OutputRoot)
	}
	res.Paths = OutputPaths{
		Native: outputPath,
		Hourly: output.HourPath(outputPath),
		Report: output.ReportPath(outputPath, opts.ReportExt),
	}

	err = timed(opts.Observer, StageWrite, func() error {
		return Write(res)
	})
	if err != nil {
		return nil, NewStageError(StageWrite, outputPath, err)
	}

	logger.Info("Report processed",
		zap.String("output", res.Paths.Native),
		zap.Strings("categories", res.Native.Categories),
		zap.Int("rows", res.Native.Len()),
		zap.Int("hours", res.Hourly.Len()))
	return res, nil
}

// Write persists the native CSV, hourly CSV and report to res.Paths.
// All three are written to temporaries first; the targets are replaced only
// when every file was written, so a failure leaves the previous outputs intact.
func Write(res *Result) error {
	var batch output.Batch
	defer batch.Discard()

	if err := batch.Stage(res.Paths.Native, func(w io.Writer) error {
		return output.WriteSeries(w, res.Native, res.NativeTotals)
	}); err != nil {
		return fmt.Errorf("native series: %w", err)
	}
	if err := batch.Stage(res.Paths.Hourly, func(w io.Writer) error {
		return output.WriteSeries(w, res.Hourly, res.HourlyTotals)
	}); err != nil {
		return fmt.Errorf("hourly series: %w", err)
	}
	if err := batch.Stage(res.Paths.Report, func(w io.Writer) error {
		return output.WriteReport(w, res.Report)
	}); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return batch.Commit()
}
