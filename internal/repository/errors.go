// Package repository contains data access logic separated from HTTP
// handlers and services. Sentinel errors let higher layers distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when creating a user whose email is already
// registered. The `users.email` column carries a uniqueness constraint, so
// the storage layer is the final arbiter even under concurrent registration.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup or update matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrProjectNotFound is returned when a project does not exist or belongs
// to a different user. Ownership misses are deliberately indistinguishable
// from absence.
var ErrProjectNotFound = errors.New("project not found")
