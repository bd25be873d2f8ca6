package repository

import "errors"

// ErrNotFound is returned when a row does not exist or is not owned by the
// requesting user. Ownership misses are indistinguishable from missing rows
// on purpose: every statement is scoped by user_id.
var ErrNotFound = errors.New("not found")
