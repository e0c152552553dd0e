package tracer

import "errors"

var (
	ErrInvalidBlock   = errors.New("tracer: block range out of bounds")
	ErrMissingResults = errors.New("tracer: block request has no result buffer")
)
