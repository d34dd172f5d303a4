// Package storage holds the errors shared by the persistence packages.
package storage

import "errors"

// ErrNotFound is returned when no snapshot exists for the requested user.
var ErrNotFound = errors.New("not found")
