package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/timetag/errs"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Processing failure (corrupt stream, invalid input data)
	ExitCommandError = 2 // Command error (bad config, missing files)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// exitCodeFor classifies a library error: I/O failures are command errors,
// everything else is a processing failure.
func exitCodeFor(err error) int {
	if errs.CodeOf(err) == errs.CodeIO {
		return ExitCommandError
	}

	return ExitFailure
}

// formatFloat prints a correlation amplitude with six significant digits.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// printHistogram writes one row per bin: lower edge, count and, when present,
// the normalized amplitude.
func printHistogram(w io.Writer, edges []int64, counts []int64, normalized []float64) {
	if normalized != nil {
		fmt.Fprintln(w, "lag\tcount\tnormalized")
	} else {
		fmt.Fprintln(w, "lag\tcount")
	}

	for i, c := range counts {
		if normalized != nil {
			fmt.Fprintf(w, "%d\t%d\t%s\n", edges[i], c, formatFloat(normalized[i]))
		} else {
			fmt.Fprintf(w, "%d\t%d\n", edges[i], c)
		}
	}
}
