package openspace

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why an ROI computation failed.
type ErrorKind int

const (
	// MapQueryFailure is a failed lane, path projection or parking space lookup.
	MapQueryFailure ErrorKind = iota + 1
	// GeometryInconsistency is malformed geometry or mismatched array sizes.
	GeometryInconsistency
	// OutOfRangeFailure is a vehicle or target pose outside the ROI, or a target spot too far away.
	OutOfRangeFailure
	// ConfigFailure is an invalid decider configuration.
	ConfigFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MapQueryFailure:
		return "map query failure"
	case GeometryInconsistency:
		return "geometry inconsistency"
	case OutOfRangeFailure:
		return "out of range"
	case ConfigFailure:
		return "config failure"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is a failed ROI computation. It aborts the open space path for the current cycle.
type Error struct {
	Kind ErrorKind
	err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind ErrorKind, err error) error {
	return &Error{Kind: kind, err: err}
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// IsKind reports whether err, or anything it wraps, is an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var roiErr *Error
	return errors.As(err, &roiErr) && roiErr.Kind == kind
}
