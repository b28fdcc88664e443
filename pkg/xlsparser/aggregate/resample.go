package aggregate

import (
	"errors"
	"fmt"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
)

// ErrOddLength indicates a series that cannot be split into whole hour buckets.
var ErrOddLength = errors.New("odd-length series")

// OddLengthError carries the length that could not be resampled.
type OddLengthError struct {
	Len int
}

func (e *OddLengthError) Error() string {
	return fmt.Sprintf("%v: %d timestamps cannot be paired into hours", ErrOddLength, e.Len)
}

func (e *OddLengthError) Unwrap() error {
	return ErrOddLength
}

// OddPolicy decides what Resample does with a trailing half bucket.
type OddPolicy string

const (
	// OddError fails with an OddLengthError.
	OddError OddPolicy = "error"
	// OddTruncate drops the last timestamp.
	OddTruncate OddPolicy = "truncate"
)

// ParseOddPolicy validates a policy name.
func ParseOddPolicy(s string) (OddPolicy, error) {
	switch p := OddPolicy(s); p {
	case OddError, OddTruncate:
		return p, nil
	case "":
		return OddError, nil
	default:
		return "", fmt.Errorf("invalid odd-length policy: %s (must be error or truncate)", s)
	}
}

// Resample sums rows 2k and 2k+1 of every category into hour bucket k,
// labelled with the timestamp of row 2k.
func Resample(a *models.AggregateTable, policy OddPolicy) (*models.AggregateTable, error) {
	n := a.Len()
	if n%2 != 0 {
		if policy != OddTruncate {
			return nil, &OddLengthError{Len: n}
		}
		n--
	}

	hours := n / 2
	out := &models.AggregateTable{
		Timestamps: make([]string, hours),
		Categories: append([]string(nil), a.Categories...),
		Values:     make([][]float64, len(a.Categories)),
	}
	for k := 0; k < hours; k++ {
		out.Timestamps[k] = a.Timestamps[2*k]
	}
	for c, values := range a.Values {
		bucket := make([]float64, hours)
		for k := range bucket {
			bucket[k] = values[2*k] + values[2*k+1]
		}
		out.Values[c] = bucket
	}
	return out, nil
}
