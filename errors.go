package voltrace

import "errors"

// ErrInvalidArgument is returned when a request violates a precondition:
// non-positive tau, an inverted range, a zero dimension, or a non-finite
// scalar. No partial work is performed.
var ErrInvalidArgument = errors.New("voltrace: invalid argument")

// ErrPoolExhausted is returned when the shared worker pool refused a
// submission. The cache is left unchanged.
var ErrPoolExhausted = errors.New("voltrace: worker pool exhausted")
