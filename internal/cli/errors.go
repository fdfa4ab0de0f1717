package cli

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a command failure so callers can branch on it.
type ErrorKind int

const (
	// KindNone means the error is not a command error (I/O failure, nil, ...).
	KindNone ErrorKind = iota
	KindEmptyDescription
	KindBadFormat
	KindBadOperation
	KindUnrecognizedCommand
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyDescription:
		return "EmptyDescription"
	case KindBadFormat:
		return "BadFormat"
	case KindBadOperation:
		return "BadOperation"
	case KindUnrecognizedCommand:
		return "UnrecognizedCommand"
	default:
		return "None"
	}
}

// EmptyDescriptionError indicates a required free-text segment is missing.
type EmptyDescriptionError struct {
	Command string // the command keyword, e.g. "todo"
}

func (e *EmptyDescriptionError) Error() string {
	return fmt.Sprintf("%s: the description cannot be empty", e.Command)
}

// BadFormatError indicates a segment is present but malformed.
type BadFormatError struct {
	Command string // the command keyword
	Usage   string // expected form, shown as a hint
	Reason  string // what went wrong
}

func (e *BadFormatError) Error() string {
	msg := fmt.Sprintf("bad format for %s: %s", e.Command, e.Reason)
	if e.Usage != "" {
		msg += "\nusage: " + e.Usage
	}
	return msg
}

// BadOperationError indicates a well-formed command that cannot be applied,
// such as an index outside the collection.
type BadOperationError struct {
	Command string
	Reason  string
}

func (e *BadOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Reason)
}

// UnrecognizedCommandError indicates the leading keyword matches no command.
type UnrecognizedCommandError struct {
	Input string // the keyword as typed
}

func (e *UnrecognizedCommandError) Error() string {
	return fmt.Sprintf("I don't know what %q means", e.Input)
}

// KindOf reports which command error kind err carries, looking through wrapping.
func KindOf(err error) ErrorKind {
	var (
		emptyErr   *EmptyDescriptionError
		formatErr  *BadFormatError
		opErr      *BadOperationError
		unknownErr *UnrecognizedCommandError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &emptyErr):
		return KindEmptyDescription
	case errors.As(err, &formatErr):
		return KindBadFormat
	case errors.As(err, &opErr):
		return KindBadOperation
	case errors.As(err, &unknownErr):
		return KindUnrecognizedCommand
	default:
		return KindNone
	}
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
