package rangeset

import "errors"

var (
	// ErrInvalidInterval is returned when an interval is built with its
	// first bound above its last bound.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrUnsortedInput is returned when a set is built from intervals that
	// are not strictly sorted, or that overlap or touch each other.
	ErrUnsortedInput = errors.New("unsorted or overlapping intervals")
)
