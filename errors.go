// Package fetchtripper provides an asynchronous, multi-source file fetcher:
// given one or more equivalent URLs for a logical file and a destination
// path, it downloads the file to that path, optionally in parallel
// byte-range segments, optionally refreshed against an already-present
// local copy, reporting progress to an observer over a non-blocking event
// channel.
package fetchtripper

import "fmt"

// Kind identifies the closed set of failure kinds the fetcher surfaces.
type Kind int

// The full set of error kinds an operation may return.
const (
	ErrClient Kind = iota
	ErrStatus
	ErrTimedOut
	ErrFileCreate
	ErrWrite
	ErrOpenPart
	ErrConcatenate
	ErrMetadataRemove
	ErrRename
	ErrFileTime
	ErrInvalidRange
	ErrNameless
	ErrParentless
)

func (k Kind) String() string {
	switch k {
	case ErrClient:
		return "client"
	case ErrStatus:
		return "status"
	case ErrTimedOut:
		return "timed out"
	case ErrFileCreate:
		return "file create"
	case ErrWrite:
		return "write"
	case ErrOpenPart:
		return "open part"
	case ErrConcatenate:
		return "concatenate"
	case ErrMetadataRemove:
		return "metadata remove"
	case ErrRename:
		return "rename"
	case ErrFileTime:
		return "file time"
	case ErrInvalidRange:
		return "invalid range"
	case ErrNameless:
		return "nameless"
	case ErrParentless:
		return "parentless"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every fetch operation. Path, Status,
// and Err are populated only for the kinds that carry them.
type Error struct {
	Kind   Kind
	Path   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrStatus:
		return fmt.Sprintf("server responded with an error: %d", e.Status)
	case ErrOpenPart:
		return fmt.Sprintf("unable to open fetched part %q: %v", e.Path, e.Err)
	case ErrFileTime:
		return fmt.Sprintf("unable to set timestamp on %q: %v", e.Path, e.Err)
	case ErrMetadataRemove:
		return fmt.Sprintf("unable to remove stale file %q: %v", e.Path, e.Err)
	case ErrRename:
		return fmt.Sprintf("unable to rename to %q: %v", e.Path, e.Err)
	case ErrFileCreate:
		return fmt.Sprintf("unable to create %q: %v", e.Path, e.Err)
	case ErrNameless:
		return "destination has no file name"
	case ErrParentless:
		return "destination lacks a parent directory"
	case ErrTimedOut:
		return "connection timed out"
	case ErrInvalidRange:
		return "content length is an invalid range"
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

// Unwrap exposes the wrapped error, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so callers can
// test for a specific failure with errors.Is(err, fetchtripper.KindError(ErrTimedOut)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindError returns a bare *Error carrying only a Kind, for use with errors.Is.
func KindError(k Kind) *Error { return &Error{Kind: k} }
