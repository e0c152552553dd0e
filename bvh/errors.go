package bvh

import "errors"

var (
	ErrInvalidOptions       = errors.New("bvh: invalid options")
	ErrUnknownSplitStrategy = errors.New("bvh: unknown split strategy")
	ErrInvariantViolation   = errors.New("bvh: invariant violation")
)
