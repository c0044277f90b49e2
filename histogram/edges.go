package histogram

import (
	"fmt"
	"math"

	"github.com/arloliu/timetag/errs"
)

// LinearEdgesLen returns the number of edges LinearEdges produces for the range
// [start, stop) stepping by step, or [start, stop] when rightInclusive is set.
//
// With mustContainStop the range is right-inclusive and, when stop is not on the
// step grid, one extra edge past stop is added so the last bin covers stop.
// A zero step yields no edges.
//
// Returns errs.ErrInvalidArgument if start > stop, step < 0, or start == stop with
// a step other than 1.
func LinearEdgesLen(start, stop, step int64, rightInclusive, mustContainStop bool) (int, error) {
	if start > stop {
		return 0, fmt.Errorf("start %d after stop %d: %w", start, stop, errs.ErrInvalidArgument)
	}

	if start == stop && step != 1 {
		return 0, fmt.Errorf("empty range with step %d: %w", step, errs.ErrInvalidArgument)
	}

	if step < 0 {
		return 0, fmt.Errorf("negative step %d: %w", step, errs.ErrInvalidArgument)
	}

	if step == 0 {
		return 0, nil
	}

	var n int64
	if mustContainStop {
		rightInclusive = true
		if (stop-start)%step != 0 {
			n++
		}
	}

	if rightInclusive {
		n += (stop-start)/step + 1
	} else {
		n += (stop-1-start)/step + 1
	}

	return int(n), nil
}

// LinearEdges fills out with start + i*step. out must hold exactly
// LinearEdgesLen(start, stop, step, rightInclusive, mustContainStop) values.
func LinearEdges(out []int64, start, stop, step int64, rightInclusive, mustContainStop bool) error {
	n, err := LinearEdgesLen(start, stop, step, rightInclusive, mustContainStop)
	if err != nil {
		return err
	}

	if out == nil && n > 0 {
		return fmt.Errorf("linear edges output: %w", errs.ErrNullInput)
	}

	if len(out) != n {
		return fmt.Errorf("linear edges length %d, want %d: %w", len(out), n, errs.ErrLengthMismatch)
	}

	for i := range out {
		out[i] = start + int64(i)*step
	}

	return nil
}

// LogEdges fills out with len(out) logarithmically spaced values from base^start
// towards base^stop, excluding base^stop itself: out[i] = base^start * r^i with
// r = base^((stop-start)/len(out)).
func LogEdges(out []float64, start, stop, base float64) {
	if len(out) == 0 {
		return
	}

	ratio := math.Pow(base, (stop-start)/float64(len(out)))
	v := math.Pow(base, start)
	for i := range out {
		out[i] = v
		v *= ratio
	}
}
