package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzo-il/data-acquisition/internal/testutil"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

func TestLocateAnchor(t *testing.T) {
	g := testutil.Grid(testutil.ScenarioRows()...)

	anchor, err := LocateAnchor(g, models.DefaultWindow())
	require.NoError(t, err)
	assert.Equal(t, models.Anchor{Row: 2, Col: 1}, anchor)
}

func TestLocateAnchorMarkerText(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"Unit Name", true},
		{"UnitName", true},
		{"Unit   Name", true},
		{"Unit\tName", true},
		{"Generating Unit Name (MW)", true},
		{"unit name", false},
		{"Name Unit", false},
		{"Unit", false},
	}

	for _, tt := range tests {
		g := testutil.Grid(testutil.Row(tt.text))
		_, err := LocateAnchor(g, models.DefaultWindow())
		if tt.expected {
			assert.NoError(t, err, "text %q", tt.text)
		} else {
			assert.ErrorIs(t, err, ErrAnchorNotFound, "text %q", tt.text)
		}
	}
}

func TestLocateAnchorColumnMajorOrder(t *testing.T) {
	// (0,2) comes first in row-major order, (3,1) in column-major order.
	g := testutil.Grid(
		testutil.Row(nil, nil, "Unit Name"),
		testutil.Row(),
		testutil.Row(),
		testutil.Row(nil, "Unit Name"),
	)

	anchor, err := LocateAnchor(g, models.DefaultWindow())
	require.NoError(t, err)
	assert.Equal(t, models.Anchor{Row: 3, Col: 1}, anchor)
}

func TestLocateAnchorIgnoresDuplicatesOutsideWindow(t *testing.T) {
	rows := make([][]any, 60)
	for i := range rows {
		rows[i] = testutil.Row()
	}
	rows[4] = testutil.Row(nil, nil, "Unit Name")
	rows[55] = testutil.Row("Unit Name")
	g := testutil.Grid(rows...)

	anchor, err := LocateAnchor(g, models.DefaultWindow())
	require.NoError(t, err)
	assert.Equal(t, models.Anchor{Row: 4, Col: 2}, anchor)
}

func TestLocateAnchorNotFound(t *testing.T) {
	tests := []struct {
		name   string
		grid   *models.Grid
		window models.Window
	}{
		{"empty grid", testutil.Grid(), models.DefaultWindow()},
		{"no marker", testutil.Grid(testutil.Row("a", 1, nil), testutil.Row(nil, "b")), models.DefaultWindow()},
		{"marker below window", testutil.Grid(testutil.Row(), testutil.Row(), testutil.Row("Unit Name")), models.Window{MaxRow: 1, MaxCol: 5}},
		{"marker right of window", testutil.Grid(testutil.Row(nil, nil, "Unit Name")), models.Window{MaxRow: 5, MaxCol: 1}},
		{"window larger than grid", testutil.Grid(testutil.Row("x")), models.Window{MaxRow: 1000, MaxCol: 1000}},
		{"negative window", testutil.Grid(testutil.Row("Unit Name")), models.Window{MaxRow: -1, MaxCol: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocateAnchor(tt.grid, tt.window)
			require.ErrorIs(t, err, ErrAnchorNotFound)

			var anchorErr *AnchorError
			require.ErrorAs(t, err, &anchorErr)
			assert.Equal(t, tt.window, anchorErr.Window)
		})
	}
}

func TestLocateAnchorWindowIsInclusive(t *testing.T) {
	g := testutil.Grid(testutil.Row(), testutil.Row(nil, "Unit Name"))

	anchor, err := LocateAnchor(g, models.Window{MaxRow: 1, MaxCol: 1})
	require.NoError(t, err)
	assert.Equal(t, models.Anchor{Row: 1, Col: 1}, anchor)
}

func TestLocateMarkerCustomPattern(t *testing.T) {
	g := testutil.Grid(testutil.Row("Station", "Date"))

	anchor, err := LocateMarker(g, models.DefaultWindow(), regexp.MustCompile(`^Date$`))
	require.NoError(t, err)
	assert.Equal(t, models.Anchor{Row: 0, Col: 1}, anchor)
}

func TestLocateMarkerErrorNamesPattern(t *testing.T) {
	g := testutil.Grid(testutil.Row("Station", "Unit Name"))

	_, err := LocateMarker(g, models.DefaultWindow(), regexp.MustCompile(`^Date$`))
	require.ErrorIs(t, err, ErrAnchorNotFound)

	var anchorErr *AnchorError
	require.ErrorAs(t, err, &anchorErr)
	assert.Equal(t, "^Date$", anchorErr.Pattern)
	assert.Contains(t, err.Error(), `"^Date$"`)
	assert.NotContains(t, err.Error(), MarkerPattern.String())
}
