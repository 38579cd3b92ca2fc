package reindex

import "errors"

// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
