package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrUnknownDriver is returned by Open for an unsupported store driver.
var ErrUnknownDriver = errors.New("unknown store driver")
