package repository

import "errors"

// ErrNotFound is returned when a point lookup or keyed mutation matches no
// row. Callers must distinguish it from infrastructure failures instead of
// collapsing both into a default value.
var ErrNotFound = errors.New("repository: not found")
