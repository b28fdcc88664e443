package parser

import (
	"errors"
	"fmt"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the workbook could not be opened as xlsx.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates the sheet identifier matched neither a name nor an index.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrAnchorNotFound indicates no marker cell was found inside the search window.
var ErrAnchorNotFound = errors.New("anchor not found")

// ErrMappingInvalid indicates the mapping or alias input is unreadable or malformed.
var ErrMappingInvalid = errors.New("invalid mapping")

// ErrDuplicateColumn indicates two header cells normalized to the same name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// AnchorError reports a failed anchor search together with the pattern and
// bounds searched.
type AnchorError struct {
	Pattern string
	Window  models.Window
	Rows    int
	Cols    int
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("%v: no cell matching %q within rows 0..%d, cols 0..%d (grid %dx%d)",
		ErrAnchorNotFound, e.Pattern, e.Window.MaxRow, e.Window.MaxCol, e.Rows, e.Cols)
}

func (e *AnchorError) Unwrap() error {
	return ErrAnchorNotFound
}

// DuplicateColumnError names the header that collided and the columns involved.
type DuplicateColumnError struct {
	Name      string
	FirstCol  int
	SecondCol int
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("%v: %q in columns %d and %d", ErrDuplicateColumn, e.Name, e.FirstCol, e.SecondCol)
}

func (e *DuplicateColumnError) Unwrap() error {
	return ErrDuplicateColumn
}
