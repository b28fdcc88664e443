package xlsparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"

	"github.com/nzo-il/data-acquisition/internal/testutil"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/config"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

func scenarioMapping() *models.Mapping {
	return models.NewMapping([]models.Pair{
		{Name: "PlantA", Category: "Solar"},
		{Name: "PlantC", Category: "Solar"},
		{Name: "PlantB", Category: "Gas"},
	}, nil, nil)
}

// withPlantD appends an unmapped PlantD column to the scenario rows.
func withPlantD() [][]any {
	rows := testutil.ScenarioRows()
	rows[2] = append(rows[2], "PlantD")
	for i := 3; i <= 6; i++ {
		rows[i] = append(rows[i], 1)
	}
	return rows
}

func testSource() models.Source {
	return models.Source{Path: "inputs/dec.xlsx", SheetName: "Report"}
}

func TestProcess(t *testing.T) {
	grid := testutil.Grid(withPlantD()...)

	res, err := Process(grid, testSource(), scenarioMapping(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, models.Anchor{Row: 2, Col: 1}, res.Anchor)
	assert.Equal(t, []string{"Solar", "Gas"}, res.Native.Categories)

	solar, ok := res.Native.Series("Solar")
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5, 0, 4}, solar)
	assert.Equal(t, []float64{11.5, 22.5, 30, 44}, res.NativeTotals)

	assert.Equal(t, []string{"01/12/2019 00:00", "01/12/2019 01:00"}, res.Hourly.Timestamps)
	hourlySolar, _ := res.Hourly.Series("Solar")
	assert.Equal(t, []float64{4, 4}, hourlySolar)
	assert.Equal(t, []float64{34, 74}, res.HourlyTotals)

	assert.Equal(t, []string{"PlantD"}, res.Report.Unmapped)
	assert.Equal(t, []string{"PlantC"}, res.Report.Unused)
	assert.Equal(t, "B4:E7", res.Report.Range)
	assert.Equal(t, testSource(), res.Report.Source)
}

func TestProcessHourlyPreservesTotals(t *testing.T) {
	res, err := Process(testutil.Grid(withPlantD()...), testSource(), scenarioMapping(), DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, floats.Sum(res.NativeTotals), floats.Sum(res.HourlyTotals), 1e-9)
	for c, cat := range res.Native.Categories {
		assert.InDelta(t, floats.Sum(res.Native.Values[c]), floats.Sum(res.Hourly.Values[c]), 1e-9, cat)
	}
}

func TestProcessAnchorNotFound(t *testing.T) {
	grid := testutil.Grid(testutil.Row("no marker here"))

	_, err := Process(grid, testSource(), scenarioMapping(), DefaultOptions())
	require.ErrorIs(t, err, ErrAnchorNotFound)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageLocateAnchor, stageErr.Stage)
}

func TestProcessAnchorOutsideWindow(t *testing.T) {
	opts := DefaultOptions()
	opts.Window = models.Window{MaxRow: 1, MaxCol: 1}

	_, err := Process(testutil.Grid(testutil.ScenarioRows()...), testSource(), scenarioMapping(), opts)
	assert.ErrorIs(t, err, ErrAnchorNotFound)
}

func TestProcessDuplicateColumns(t *testing.T) {
	rows := testutil.ScenarioRows()
	rows[2] = append(rows[2], "PlantA ")
	for i := 3; i <= 6; i++ {
		rows[i] = append(rows[i], 100)
	}

	t.Run("overwrite", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		opts := DefaultOptions()
		opts.Logger = zap.New(core)

		res, err := Process(testutil.Grid(rows...), testSource(), scenarioMapping(), opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"PlantA"}, res.Duplicates)

		solar, _ := res.Native.Series("Solar")
		assert.Equal(t, []float64{100, 100, 100, 100}, solar)
		assert.Equal(t, 1, logs.FilterMessage("Duplicate column overwritten").Len())
	})

	t.Run("error", func(t *testing.T) {
		opts := DefaultOptions()
		opts.DuplicateColumns = DuplicateError

		_, err := Process(testutil.Grid(rows...), testSource(), scenarioMapping(), opts)
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})
}

func TestProcessOddLength(t *testing.T) {
	rows := testutil.ScenarioRows()
	rows[6] = testutil.Row() // three timestamps remain

	t.Run("error", func(t *testing.T) {
		_, err := Process(testutil.Grid(rows...), testSource(), scenarioMapping(), DefaultOptions())
		require.ErrorIs(t, err, ErrOddLength)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageResample, stageErr.Stage)
	})

	t.Run("truncate", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		opts := DefaultOptions()
		opts.OddLength = "truncate"
		opts.Logger = zap.New(core)

		res, err := Process(testutil.Grid(rows...), testSource(), scenarioMapping(), opts)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Native.Len())
		assert.Equal(t, []string{"01/12/2019 00:00"}, res.Hourly.Timestamps)
		assert.Equal(t, 1, logs.FilterMessage("Dropping trailing half hour").Len())
	})
}

func TestProcessSkipSet(t *testing.T) {
	mapping := models.NewMapping([]models.Pair{
		{Name: "PlantA", Category: "Solar"},
		{Name: "PlantB", Category: "Gas"},
	}, nil, []string{"PlantB", "PlantD"})

	res, err := Process(testutil.Grid(withPlantD()...), testSource(), mapping, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Solar"}, res.Native.Categories)
	assert.Empty(t, res.Report.Unmapped)
	assert.Empty(t, res.Report.Unused)
}

func TestProcessChainedAliases(t *testing.T) {
	grid := testutil.Grid(
		testutil.Row("Unit Name", "A"),
		testutil.Row("t0", 5),
		testutil.Row("t1", 7),
	)
	mapping := models.NewMapping([]models.Pair{{Name: "B", Category: "Solar"}},
		models.Aliases{"A": "B", "B": "C"}, nil)

	res, err := Process(grid, testSource(), mapping, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"C"}, res.Table.Names())
	solar, ok := res.Native.Series("Solar")
	require.True(t, ok)
	assert.Equal(t, []float64{5, 7}, solar)
	assert.Empty(t, res.Report.Unmapped)
	assert.Empty(t, res.Report.Unused)
}

func TestProcessObserverStages(t *testing.T) {
	timings := &StageTimings{}
	opts := DefaultOptions()
	opts.Observer = timings

	_, err := Process(testutil.Grid(testutil.ScenarioRows()...), testSource(), scenarioMapping(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		StageLocateAnchor, StageExtract, StageReconcile, StageAggregate, StageResample,
	}, timings.Names())
	for _, s := range timings.Stages {
		assert.NoError(t, s.Err, s.Stage)
	}
}

// setupRun writes the scenario workbook under dir/inputs and a mapping file,
// returning options pointing at both.
func setupRun(t *testing.T, rows [][]any) (string, Options) {
	t.Helper()
	dir := t.TempDir()

	inputs := filepath.Join(dir, "inputs")
	require.NoError(t, os.MkdirAll(inputs, 0755))
	input := testutil.WriteWorkbook(t, inputs, "dec.xlsx", "Report", rows)

	mappingPath := filepath.Join(dir, "mapping.csv")
	require.NoError(t, os.WriteFile(mappingPath, []byte("name,category\nPlantA,Solar\nPlantC,Solar\nPlantB,Gas\n"), 0644))

	opts := DefaultOptions()
	opts.Sheet = "Report"
	opts.MappingPath = mappingPath
	opts.InputRoot = inputs
	opts.OutputRoot = filepath.Join(dir, "outputs")
	return input, opts
}

func TestRun(t *testing.T) {
	input, opts := setupRun(t, testutil.ScenarioRows())
	timings := &StageTimings{}
	opts.Observer = timings

	res, err := Run(input, "", opts)
	require.NoError(t, err)

	expectedNative := filepath.Join(opts.OutputRoot, "dec.csv")
	assert.Equal(t, OutputPaths{
		Native: expectedNative,
		Hourly: filepath.Join(opts.OutputRoot, "dec_hour.csv"),
		Report: filepath.Join(opts.OutputRoot, "dec.report"),
	}, res.Paths)

	native, err := os.ReadFile(res.Paths.Native)
	require.NoError(t, err)
	assert.Equal(t, "Timestamp,Sum,Solar,Gas\n"+
		"01/12/2019 00:00,11.5,1.5,10\n"+
		"01/12/2019 00:30,22.5,2.5,20\n"+
		"01/12/2019 01:00,30,0,30\n"+
		"01/12/2019 01:30,44,4,40\n", string(native))

	hourly, err := os.ReadFile(res.Paths.Hourly)
	require.NoError(t, err)
	assert.Equal(t, "Timestamp,Sum,Solar,Gas\n"+
		"01/12/2019 00:00,34,4,30\n"+
		"01/12/2019 01:00,74,4,70\n", string(hourly))

	report, err := os.ReadFile(res.Paths.Report)
	require.NoError(t, err)
	assert.Equal(t, "# source: "+input+"  sheet: Report  range: B4:D7\n"+
		"=== names missing from mapping ===\n"+
		"=== end ===\n"+
		"=== names missing from data ===\n"+
		"PlantC\n"+
		"=== end ===\n", string(report))

	assert.Equal(t, []string{
		StageLoadMapping, StageLoadGrid, StageLocateAnchor, StageExtract,
		StageReconcile, StageAggregate, StageResample, StageWrite,
	}, timings.Names())
}

func TestWriteFailureKeepsPreviousOutputs(t *testing.T) {
	res, err := Process(testutil.Grid(testutil.ScenarioRows()...), testSource(), scenarioMapping(), DefaultOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	native := filepath.Join(dir, "dec.csv")
	require.NoError(t, os.WriteFile(native, []byte("previous\n"), 0644))
	// A regular file where the report directory should be makes the last write fail.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	res.Paths = OutputPaths{
		Native: native,
		Hourly: filepath.Join(dir, "dec_hour.csv"),
		Report: filepath.Join(blocker, "dec.report"),
	}

	require.Error(t, Write(res))

	data, err := os.ReadFile(native)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
	assert.NoFileExists(t, res.Paths.Hourly)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the previous output and the blocker remain")
}

func TestRunIsIdempotent(t *testing.T) {
	input, opts := setupRun(t, testutil.ScenarioRows())

	first, err := Run(input, "", opts)
	require.NoError(t, err)
	paths := []string{first.Paths.Native, first.Paths.Hourly, first.Paths.Report}

	contents := make([][]byte, len(paths))
	for i, p := range paths {
		contents[i], err = os.ReadFile(p)
		require.NoError(t, err)
	}

	_, err = Run(input, "", opts)
	require.NoError(t, err)
	for i, p := range paths {
		again, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, contents[i], again, p)
	}
}

func TestRunExplicitOutputPath(t *testing.T) {
	input, opts := setupRun(t, testutil.ScenarioRows())
	out := filepath.Join(t.TempDir(), "custom", "result.csv")

	res, err := Run(input, out, opts)
	require.NoError(t, err)
	assert.Equal(t, out, res.Paths.Native)
	assert.FileExists(t, filepath.Join(filepath.Dir(out), "result_hour.csv"))
	assert.FileExists(t, filepath.Join(filepath.Dir(out), "result.report"))
}

func TestRunWritesNothingOnFailure(t *testing.T) {
	input, opts := setupRun(t, [][]any{{"no marker"}})

	_, err := Run(input, "", opts)
	require.ErrorIs(t, err, ErrAnchorNotFound)

	_, statErr := os.Stat(opts.OutputRoot)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRunErrors(t *testing.T) {
	input, opts := setupRun(t, testutil.ScenarioRows())

	t.Run("missing input", func(t *testing.T) {
		_, err := Run(filepath.Join(filepath.Dir(input), "absent.xlsx"), "", opts)
		require.ErrorIs(t, err, ErrFileNotFound)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageLoadGrid, stageErr.Stage)
	})

	t.Run("missing sheet", func(t *testing.T) {
		o := opts
		o.Sheet = "Elsewhere"
		_, err := Run(input, "", o)
		assert.ErrorIs(t, err, ErrSheetNotFound)
	})

	t.Run("missing mapping", func(t *testing.T) {
		o := opts
		o.MappingPath = filepath.Join(filepath.Dir(input), "absent.csv")
		_, err := Run(input, "", o)
		require.ErrorIs(t, err, ErrMappingInvalid)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageLoadMapping, stageErr.Stage)
	})
}

func TestRunLogsRunID(t *testing.T) {
	input, opts := setupRun(t, testutil.ScenarioRows())
	core, logs := observer.New(zapcore.InfoLevel)
	opts.Logger = zap.New(core)

	_, err := Run(input, "", opts)
	require.NoError(t, err)

	entries := logs.FilterMessage("Report processed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["run_id"])
	assert.Equal(t, input, fields["input"])
}

func TestLoadMappingMergesAliases(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(mappingPath, []byte(`{"Hadera 2": "Coal", "Rotem": "Gas"}`), 0644))
	aliasesPath := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(aliasesPath, []byte("Hadera 2B: Hadera 2\nRotem 1: Rotem X\n"), 0644))

	opts := DefaultOptions()
	opts.MappingPath = mappingPath
	opts.AliasesPath = aliasesPath
	opts.Aliases = models.Aliases{"Rotem 1": "Rotem"}

	m, err := LoadMapping(opts)
	require.NoError(t, err)

	cat, ok := m.Category("Hadera 2B")
	require.True(t, ok)
	assert.Equal(t, "Coal", cat)

	cat, ok = m.Category("Rotem 1")
	require.True(t, ok)
	assert.Equal(t, "Gas", cat)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SearchWindow = "A1:J20"
	cfg.OddLength = "truncate"
	cfg.DuplicateColumns = "error"
	cfg.AliasesInline = map[string]string{"a": "b"}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, models.Window{MaxRow: 19, MaxCol: 9}, opts.Window)
	assert.Equal(t, DuplicateError, opts.DuplicateColumns)
	assert.EqualValues(t, "truncate", opts.OddLength)
	assert.Equal(t, models.Aliases{"a": "b"}, opts.Aliases)

	cfg.SearchWindow = "not a range"
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}

func TestStageErrorMessage(t *testing.T) {
	err := NewStageError(StageLoadGrid, "in.xlsx", ErrSheetNotFound)
	assert.True(t, strings.HasPrefix(err.Error(), `load_grid failed for "in.xlsx"`))
	assert.ErrorIs(t, err, ErrSheetNotFound)

	bare := NewStageError(StageWrite, "", errors.New("disk full"))
	assert.Equal(t, "write: disk full", bare.Error())
}
