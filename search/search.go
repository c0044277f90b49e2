package search

import (
	"math"
	"sort"
)

// Number is the element type of timestamp sequences and bin edges.
type Number interface {
	~int64 | ~float64
}

// Side selects which insertion index a locator returns for a matching value.
type Side int

const (
	Left  Side = 0 // lower bound
	Right Side = 1 // one past the matched element
)

// SequentialLeft returns the lower bound of v in a, scanning linearly from guess.
//
// The scan runs left when a[guess] >= v and right otherwise, so the cost is the
// distance between guess and the answer.
func SequentialLeft[T Number](a []T, v T, guess int) int {
	n := len(a)
	if n == 0 || v < a[0] {
		return 0
	}

	if v > a[n-1] {
		return n
	}

	guess = clamp(guess, n)

	if a[guess] >= v {
		for j := guess; j >= 0; j-- {
			if a[j] < v {
				return j + 1
			}
		}

		return 0
	}

	for j := guess + 1; j < n; j++ {
		if a[j] >= v {
			return j
		}
	}

	// v <= a[n-1] guarantees the loop returns
	return n
}

// Sequential returns the insertion index of v in a for the given side, scanning
// linearly from guess.
func Sequential[T Number](a []T, v T, guess int, side Side) int {
	i := SequentialLeft(a, v, guess)
	if side == Right && i < len(a) && a[i] == v {
		i++
	}

	return i
}

// Guess estimates the position of v in a assuming evenly spaced elements:
// round(len(a) * (v - a[0]) / (a[last] - a[0])), clamped to [0, len(a)-1].
//
// Returns 0 for an empty or flat sequence.
func Guess[T Number](a []T, v T) int {
	n := len(a)
	if n == 0 {
		return 0
	}

	first := float64(a[0])
	span := float64(a[n-1]) - first
	if span <= 0 {
		return 0
	}

	g := math.Round(float64(n) * (float64(v) - first) / span)
	if math.IsNaN(g) || g < 0 {
		return 0
	}

	if g >= float64(n) {
		return n - 1
	}

	return int(g)
}

// InterpolatedLeft returns the lower bound of v in a, starting the scan from Guess.
func InterpolatedLeft[T Number](a []T, v T) int {
	return SequentialLeft(a, v, Guess(a, v))
}

// Interpolated returns the insertion index of v in a for the given side, starting
// the scan from Guess.
func Interpolated[T Number](a []T, v T, side Side) int {
	return Sequential(a, v, Guess(a, v), side)
}

// Upper returns the smallest index i >= from with a[i] > v, or len(a) if none,
// using bisection over a[from:].
func Upper[T Number](a []T, v T, from int) int {
	if from < 0 {
		from = 0
	}

	if from >= len(a) {
		return len(a)
	}

	tail := a[from:]

	return from + sort.Search(len(tail), func(i int) bool { return tail[i] > v })
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}

	if i >= n {
		return n - 1
	}

	return i
}
