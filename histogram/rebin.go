package histogram

import (
	"fmt"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/search"
)

// RebinLen returns the number of bins Rebin produces from n bins: floor(n/factor).
// It returns 0 for a factor below 1.
func RebinLen(n, factor int) int {
	if factor < 1 || n < 0 {
		return 0
	}

	return n / factor
}

// Rebin adds the sums of each run of factor consecutive bins of data to out.
// Trailing bins that do not fill a whole run are discarded. With factor 1, data
// is added to out element-wise.
//
// Returns:
//   - errs.ErrInvalidArgument if factor < 1
//   - errs.ErrNullInput if out is nil while RebinLen is non-zero
//   - errs.ErrLengthMismatch if len(out) != RebinLen(len(data), factor)
func Rebin[T search.Number](out, data []T, factor int) error {
	if factor < 1 {
		return fmt.Errorf("rebin factor %d: %w", factor, errs.ErrInvalidArgument)
	}

	want := RebinLen(len(data), factor)
	if out == nil && want > 0 {
		return fmt.Errorf("rebin output: %w", errs.ErrNullInput)
	}

	if len(out) != want {
		return fmt.Errorf("rebin output length %d, want %d: %w", len(out), want, errs.ErrLengthMismatch)
	}

	for k := range out {
		var sum T
		for _, v := range data[k*factor : (k+1)*factor] {
			sum += v
		}
		out[k] += sum
	}

	return nil
}

// RebinEdgesLen returns the number of edges RebinEdges produces from nEdges edges:
// floor((nEdges-1)/factor) + 1. It returns 0 when nEdges < 1 or factor < 1.
func RebinEdgesLen(nEdges, factor int) int {
	if factor < 1 || nEdges < 1 {
		return 0
	}

	return (nEdges-1)/factor + 1
}

// RebinEdges writes every factor-th edge of edges, starting at index 0, to out. The
// result bounds the bins produced by Rebin with the same factor.
//
// Returns:
//   - errs.ErrInvalidArgument if factor < 1
//   - errs.ErrNullInput if out is nil
//   - errs.ErrInsufficientBinEdges if edges has fewer than 2 entries
//   - errs.ErrLengthMismatch if len(out) != RebinEdgesLen(len(edges), factor)
func RebinEdges[T search.Number](out, edges []T, factor int) error {
	if factor < 1 {
		return fmt.Errorf("rebin factor %d: %w", factor, errs.ErrInvalidArgument)
	}

	if out == nil {
		return fmt.Errorf("rebinned edges output: %w", errs.ErrNullInput)
	}

	if len(edges) < 2 {
		return fmt.Errorf("%d bin edges: %w", len(edges), errs.ErrInsufficientBinEdges)
	}

	if want := RebinEdgesLen(len(edges), factor); len(out) != want {
		return fmt.Errorf("rebinned edges length %d, want %d: %w", len(out), want, errs.ErrLengthMismatch)
	}

	for k := range out {
		out[k] = edges[k*factor]
	}

	return nil
}
