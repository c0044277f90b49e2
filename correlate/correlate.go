package correlate

import (
	"fmt"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/internal/pool"
	"github.com/arloliu/timetag/search"
)

// validate checks hist against edges. No buffer is touched before it passes.
func validate[T search.Number](hist []int64, edges []T) error {
	if hist == nil && len(edges) >= 2 {
		return fmt.Errorf("histogram for %d bins: %w", len(edges)-1, errs.ErrNullInput)
	}

	if len(edges) < 2 {
		return fmt.Errorf("%d bin edges: %w", len(edges), errs.ErrInsufficientBinEdges)
	}

	if len(hist) != len(edges)-1 {
		return fmt.Errorf("histogram length %d, %d bin edges: %w", len(hist), len(edges), errs.ErrLengthMismatch)
	}

	return nil
}

// VariableBin adds the correlation of left and right over edges to hist.
//
// Every edge keeps a cursor into right holding the lower bound of left[i]+edges[j].
// For a fixed i the cursors increase with j, and for a fixed j they never move
// backwards as i grows, so each update is a short hinted scan from its previous
// position. The count added to bin j-1 is the distance between the cursors of
// edges j-1 and j.
//
// Returns:
//   - errs.ErrNullInput if hist is nil
//   - errs.ErrInsufficientBinEdges if edges has fewer than 2 entries
//   - errs.ErrLengthMismatch if len(hist) != len(edges)-1
func VariableBin[T search.Number](hist []int64, edges, left, right []T) error {
	if err := validate(hist, edges); err != nil {
		return err
	}

	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	cursors, release := pool.GetCursorSlice(len(edges))
	defer release()

	for j, e := range edges {
		cursors[j] = search.InterpolatedLeft(right, left[0]+e)
	}

	for _, l := range left {
		prev := search.SequentialLeft(right, l+edges[0], cursors[0])
		cursors[0] = prev

		for j := 1; j < len(edges); j++ {
			found := search.SequentialLeft(right, l+edges[j], cursors[j])
			cursors[j] = found
			hist[j-1] += int64(found - prev)
			prev = found
		}
	}

	return nil
}

// UnitBin adds the correlation of left and right over unit-width edges to hist.
//
// Only edges[0] and the width of the first bin are used: bin k covers the lag
// edges[0]+k. A single cursor into right is shared by all left events; right events
// that precede the window of left[i] precede the windows of all later left events too.
//
// Returns the errors of VariableBin, plus errs.ErrNonUnitBinWidth if
// edges[1]-edges[0] != 1.
func UnitBin(hist []int64, edges, left, right []int64) error {
	if err := validate(hist, edges); err != nil {
		return err
	}

	if edges[1]-edges[0] != 1 {
		return fmt.Errorf("first bin width %d: %w", edges[1]-edges[0], errs.ErrNonUnitBinWidth)
	}

	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	nBins := int64(len(hist))
	next := 0
	for _, l := range left {
		origin := l + edges[0]
		for j := next; j < len(right); j++ {
			offset := right[j] - origin
			if offset < 0 {
				next = j
				continue
			}
			if offset >= nBins {
				break
			}
			hist[offset]++
		}
	}

	return nil
}

// Bin adds a histogram of data over edges to hist. Values outside
// [edges[0], edges[len(edges)-1]) are ignored. data need not be sorted.
//
// Returns the same errors as VariableBin.
func Bin[T search.Number](hist []int64, edges, data []T) error {
	if err := validate(hist, edges); err != nil {
		return err
	}

	first, last := edges[0], edges[len(edges)-1]
	for _, d := range data {
		if d < first || d >= last {
			continue
		}
		hist[search.Interpolated(edges, d, search.Right)-1]++
	}

	return nil
}
