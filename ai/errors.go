package ai

import "errors"

// ErrModelUnavailable indicates that the backing model service is not
// configured or not reachable. Callers may treat the affected modality as
// absent rather than failing the whole operation.
var ErrModelUnavailable = errors.New("model service unavailable")
