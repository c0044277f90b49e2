// Package errs defines the error taxonomy shared by every timetag package.
//
// Each sentinel error carries a small integer status code. Library functions return
// the sentinels, possibly wrapped with context via fmt.Errorf("...: %w", err), so
// callers can test with errors.Is and binding layers can translate an error chain
// into its status code with CodeOf.
//
//	if err := correlate.UnitBin(hist, edges, left, right); err != nil {
//	    if errors.Is(err, errs.ErrNonUnitBinWidth) {
//	        // fall back to the variable-bin algorithm
//	    }
//	    return errs.CodeOf(err)
//	}
package errs

import "errors"

// Code is the integer status code attached to every timetag error. Zero means success.
type Code uint8

const (
	CodeOK                   Code = 0
	CodeNullInput            Code = 1  // a required buffer is nil while its length must be non-zero
	CodeInsufficientBinEdges Code = 2  // fewer than two bin edges
	CodeLengthMismatch       Code = 3  // buffer length differs from the length implied by the inputs
	CodeNonUnitBinWidth      Code = 4  // unit-bin correlation with bins wider than one unit
	CodeFormatMismatch       Code = 5  // stream magic does not match the requested format
	CodeSeekFailure          Code = 6  // resume position beyond the stream
	CodeUnreachableState     Code = 7  // structural invariant violated; a defect
	CodeInvalidArgument      Code = 8  // scalar argument out of its domain
	CodeIO                   Code = 9  // underlying reader or file failure
	CodeInvalidBlob          Code = 10 // histogram blob is truncated or malformed
	CodeChecksumMismatch     Code = 11 // histogram blob payload checksum failed
	CodeUnknown              Code = 255
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeNullInput:
		return "NullInput"
	case CodeInsufficientBinEdges:
		return "InsufficientBinEdges"
	case CodeLengthMismatch:
		return "LengthMismatch"
	case CodeNonUnitBinWidth:
		return "NonUnitBinWidth"
	case CodeFormatMismatch:
		return "FormatMismatch"
	case CodeSeekFailure:
		return "SeekFailure"
	case CodeUnreachableState:
		return "UnreachableState"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeIO:
		return "IO"
	case CodeInvalidBlob:
		return "InvalidBlob"
	case CodeChecksumMismatch:
		return "ChecksumMismatch"
	default:
		return "Unknown"
	}
}

// Error is a sentinel error with an attached status code.
type Error struct {
	code Code
	msg  string
}

// New creates a sentinel error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Code returns the status code of the error.
func (e *Error) Code() Code {
	return e.code
}

var (
	ErrNullInput            = New(CodeNullInput, "required buffer is nil")
	ErrInsufficientBinEdges = New(CodeInsufficientBinEdges, "at least two bin edges are required")
	ErrLengthMismatch       = New(CodeLengthMismatch, "buffer length mismatch")
	ErrNonUnitBinWidth      = New(CodeNonUnitBinWidth, "bin width must be exactly one unit")
	ErrFormatMismatch       = New(CodeFormatMismatch, "stream format mismatch")
	ErrSeekFailure          = New(CodeSeekFailure, "resume position is beyond the end of the stream")
	ErrUnreachableState     = New(CodeUnreachableState, "unreachable state")
	ErrInvalidArgument      = New(CodeInvalidArgument, "invalid argument")
	ErrIO                   = New(CodeIO, "i/o failure")
	ErrInvalidBlob          = New(CodeInvalidBlob, "invalid histogram blob")
	ErrChecksumMismatch     = New(CodeChecksumMismatch, "histogram blob checksum mismatch")
)

// CodeOf returns the status code of the first timetag error in err's chain.
//
// It returns CodeOK for a nil error and CodeUnknown when the chain holds no timetag error.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.code
	}

	return CodeUnknown
}
