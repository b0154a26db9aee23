package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by DirectiveError. Use errors.Is to classify a failure.
var (
	ErrMissingSource    = errors.New("src attribute not set")
	ErrInvalidSource    = errors.New("invalid src attribute")
	ErrSourceNotFound   = errors.New("source file not found")
	ErrSourceUnreadable = errors.New("source file not readable")
	ErrInvalidBound     = errors.New("invalid line bound")
	ErrMalformedTag     = errors.New("malformed directive tag")
	ErrNested           = errors.New("nested directive")
	ErrNotClosed        = errors.New("directive not closed")
)

// DirectiveError reports a problem with a directive, tied to the input line it
// was found on.
type DirectiveError struct {
	LineNumber int
	Line       string
	Msg        string
	Err        error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("Line %d: %s\n%s", e.LineNumber, e.Msg, strings.TrimRight(e.Line, "\r\n"))
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

// NewDirectiveError builds a DirectiveError wrapping err, with a message
// formatted from format and args.
func NewDirectiveError(err error, line string, lineNumber int, format string, args ...any) *DirectiveError {
	return &DirectiveError{
		LineNumber: lineNumber,
		Line:       line,
		Msg:        fmt.Sprintf(format, args...),
		Err:        err,
	}
}
