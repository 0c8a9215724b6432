package internalerr

import "errors"

// Store and facade errors
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate run id")
	ErrStoreUnavailable = errors.New("store closed")
)

// Input errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNonGround     = errors.New("literal is not ground")
)

// ErrNoConvergence reports that the learner stopped before covering every
// positive example without a negative one.
var ErrNoConvergence = errors.New("learner made no progress")
