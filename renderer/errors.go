package renderer

import "errors"

var (
	ErrNoTracers      = errors.New("renderer: no tracers attached")
	ErrNoAccelerator  = errors.New("renderer: no accelerator defined")
	ErrInterrupted    = errors.New("renderer: interrupted while tracing")
	ErrInvalidOptions = errors.New("renderer: invalid options")
	ErrRendererClosed = errors.New("renderer: renderer is closed")
)
