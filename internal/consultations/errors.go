package consultations

import "errors"

// ErrNotFound indicates the requested consultation does not exist.
var ErrNotFound = errors.New("consultation not found")
