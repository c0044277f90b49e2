package blob

import (
	"fmt"
	"math"
	"reflect"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/search"
)

// Histogram is a correlation histogram with its bin edges.
type Histogram[T search.Number] struct {
	// Edges holds len(Counts)+1 strictly increasing bin edges.
	Edges []T
	// Counts holds the raw pair count of each bin.
	Counts []int64
	// Normalized optionally holds the normalized amplitude of each bin; nil when absent.
	Normalized []float64
}

// Bins returns the number of bins.
func (h Histogram[T]) Bins() int {
	return len(h.Counts)
}

// Validate checks that the edges increase strictly and the columns have consistent lengths.
func (h Histogram[T]) Validate() error {
	if len(h.Edges) < 2 {
		return fmt.Errorf("%d bin edges: %w", len(h.Edges), errs.ErrInsufficientBinEdges)
	}

	if len(h.Counts) != len(h.Edges)-1 {
		return fmt.Errorf("%d counts for %d edges: %w", len(h.Counts), len(h.Edges), errs.ErrLengthMismatch)
	}

	for i := 1; i < len(h.Edges); i++ {
		if !(h.Edges[i] > h.Edges[i-1]) {
			return fmt.Errorf("edge %d not increasing: %w", i, errs.ErrInvalidArgument)
		}
	}

	if h.Normalized != nil && len(h.Normalized) != len(h.Counts) {
		return fmt.Errorf("%d normalized values for %d bins: %w", len(h.Normalized), len(h.Counts), errs.ErrLengthMismatch)
	}

	if uint64(len(h.Counts)) > math.MaxUint32 {
		return fmt.Errorf("%d bins: %w", len(h.Counts), errs.ErrInvalidArgument)
	}

	return nil
}

// floatEdges reports whether T is a floating-point edge type.
func floatEdges[T search.Number]() bool {
	return reflect.TypeFor[T]().Kind() == reflect.Float64
}
