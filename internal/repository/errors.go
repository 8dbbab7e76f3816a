// Package repository contains the data access layer: one repository
// per aggregate, raw SQL over database/sql.  Sentinel errors defined
// here let handlers translate storage outcomes into the HTTP error
// taxonomy (404 for missing rows, 400/409 for conflicts, 500 for
// faults) without string matching.
package repository

import "errors"

// ErrFilmNotFound indicates the requested film row does not exist.
var ErrFilmNotFound = errors.New("film not found")

// ErrCategoryNotFound indicates the requested category row does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// ErrShowNotFound indicates the requested show row does not exist.
var ErrShowNotFound = errors.New("show not found")

// ErrTicketNotFound indicates the requested ticket row does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrUserNotFound indicates the requested user row does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUserInactive indicates the user exists but the account is
// deactivated; login and ticket issuance both refuse it.
var ErrUserInactive = errors.New("user account is deactivated")

// ErrUsernameExists indicates a unique-constraint violation on
// user.username during registration or admin creation.
var ErrUsernameExists = errors.New("username already exists")
