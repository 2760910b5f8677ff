package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Error taxonomy for the data layer. Repositories return raw store errors;
// callers translate at the boundary with Translate. Errors that are already
// part of the taxonomy pass through Translate unchanged.

// ValidationError reports malformed or missing input, optionally tagged
// with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ConflictError reports a unique-constraint violation.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return e.Field + " already exists"
	}
	return "resource already exists"
}

// NotFoundError reports a missing id lookup.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return e.Resource + " not found"
	}
	return "record not found"
}

// UnauthorizedError reports a missing or invalid session.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// DatabaseError wraps anything else coming out of the store.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string {
	return "database error: " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Translate maps a raw store error onto the taxonomy by inspecting the
// driver's structured error codes. Taxonomy errors pass through unchanged;
// nil stays nil.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var (
		validationErr   *ValidationError
		conflictErr     *ConflictError
		notFoundErr     *NotFoundError
		unauthorizedErr *UnauthorizedError
		databaseErr     *DatabaseError
	)
	if errors.As(err, &validationErr) || errors.As(err, &conflictErr) ||
		errors.As(err, &notFoundErr) || errors.As(err, &unauthorizedErr) ||
		errors.As(err, &databaseErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &ConflictError{Field: constraintColumn(sqliteErr.Error())}
		case sqlite3.ErrConstraintForeignKey:
			return &ValidationError{Message: "referenced record does not exist"}
		}
	}

	return &DatabaseError{Err: err}
}

// IsUniqueViolation reports whether err is a unique or primary-key
// constraint violation, optionally on the given column ("table.column").
func IsUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
		sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(sqliteErr.Error(), column)
}

// IsNotFound reports whether err represents a missing record, before or
// after translation.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.As(err, &notFoundErr)
}

// constraintColumn pulls the column name out of a sqlite constraint
// message such as "UNIQUE constraint failed: users.email".
func constraintColumn(msg string) string {
	_, after, found := strings.Cut(msg, "constraint failed: ")
	if !found {
		return ""
	}
	// First listed column; strip the table prefix.
	column := strings.TrimSpace(strings.Split(after, ",")[0])
	if i := strings.LastIndex(column, "."); i >= 0 {
		column = column[i+1:]
	}
	return column
}
