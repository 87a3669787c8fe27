package geometry

import "errors"

// ErrInvalidState indicates the mapper was called without usable native
// video dimensions. Callers must wait until the player reports them.
var ErrInvalidState = errors.New("invalid state: native video dimensions must be positive")
