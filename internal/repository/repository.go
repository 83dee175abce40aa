// Package repository puts an explicit interface in front of each entity's
// persistence so services can be tested against fakes.
package repository

import "errors"

// ErrNotFound is returned when a looked-up record does not exist,
// regardless of the backing store.
var ErrNotFound = errors.New("record not found")
