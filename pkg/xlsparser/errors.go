package xlsparser

import (
	"fmt"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/aggregate"
	"github.com/nzo-il/data-acquisition/pkg/xlsparser/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = parser.ErrFileNotFound

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = parser.ErrInvalidFormat

// ErrSheetNotFound indicates the requested sheet is not in the workbook.
var ErrSheetNotFound = parser.ErrSheetNotFound

// ErrAnchorNotFound indicates the marker cell was not found; nothing can be extracted.
var ErrAnchorNotFound = parser.ErrAnchorNotFound

// ErrMappingInvalid indicates the mapping or alias input could not be used.
var ErrMappingInvalid = parser.ErrMappingInvalid

// ErrDuplicateColumn indicates a header collision under the "error" policy.
var ErrDuplicateColumn = parser.ErrDuplicateColumn

// ErrOddLength indicates an odd number of timestamps under the "error" policy.
var ErrOddLength = aggregate.ErrOddLength

// StageError represents a failure in one pipeline stage.
type StageError struct {
	Stage string // "load_mapping", "load_grid", "locate_anchor", "extract", "resample", "write"
	Input string
	Err   error
}

func (e *StageError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, e.Input, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage, input string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Input: input,
		Err:   err,
	}
}
