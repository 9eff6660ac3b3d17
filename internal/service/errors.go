package service

import "errors"

// ErrInvalid marks input the caller can correct.
var ErrInvalid = errors.New("invalid request")

// ErrConflict is returned when a task-document write kept losing its
// compare-and-swap after retries.
var ErrConflict = errors.New("concurrent task updates")
