package histogram

import (
	"fmt"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/search"
)

// Normalize converts the raw correlation histogram hist into correlation amplitudes.
//
// tMin and tMax bound the acquisition window and nLeft, nRight are the event counts
// of the two correlated sequences. For bin i with edges lo and hi:
//
//	mult    = nLeft*nRight / (tMax-tMin)^2
//	A       = (hi-lo) * (tMax-tMin + 0.5 - 0.5*(lo+hi))
//	out[i]  = hist[i] / (A*mult), or 0 when A*mult == 0
//
// A is the window overlap left at the bin's lag, so uncorrelated sequences
// normalize to about 1.
func Normalize[T search.Number](out []float64, hist []int64, edges []T, tMin, tMax T, nLeft, nRight uint64) error {
	if out == nil {
		return fmt.Errorf("normalized output: %w", errs.ErrNullInput)
	}

	if len(edges) < 2 {
		return fmt.Errorf("%d bin edges: %w", len(edges), errs.ErrInsufficientBinEdges)
	}

	if len(hist) != len(edges)-1 {
		return fmt.Errorf("histogram length %d, %d bin edges: %w", len(hist), len(edges), errs.ErrLengthMismatch)
	}

	if len(out) != len(hist) {
		return fmt.Errorf("output length %d, histogram length %d: %w", len(out), len(hist), errs.ErrLengthMismatch)
	}

	if tMax <= tMin {
		return fmt.Errorf("acquisition window [%v, %v]: %w", tMin, tMax, errs.ErrInvalidArgument)
	}

	span := float64(tMax - tMin)
	mult := float64(nLeft) * float64(nRight) / (span * span)

	for i, count := range hist {
		lo, hi := float64(edges[i]), float64(edges[i+1])
		overlap := (hi - lo) * (span + 0.5 - 0.5*(lo+hi))

		denom := overlap * mult
		if denom == 0 {
			out[i] = 0
			continue
		}
		out[i] = float64(count) / denom
	}

	return nil
}
