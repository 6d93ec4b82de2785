package scoring

import "errors"

var (
	// ErrInvalidScore marks score input that cannot be adjudicated: a half-filled
	// set, a negative score, or a missing mandatory set.
	ErrInvalidScore = errors.New("invalid score")
	// ErrUndecided marks complete scores that do not produce a winner.
	ErrUndecided = errors.New("match undecided")
)
