package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrStockNotFound      = errors.New("stock does not exist")
	ErrDuplicateSymbol    = errors.New("a stock with this symbol already exists")
	ErrAlreadyInPortfolio = errors.New("stock is already in portfolio")
	ErrNotInPortfolio     = errors.New("stock is not in portfolio")
	ErrInvalidCredentials = errors.New("username not found and/or password incorrect")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
)

// ValidationError lists problems per request field. Err, when set, is the
// sentinel behind the problem so callers can match it with errors.Is.
type ValidationError struct {
	Fields map[string][]string
	Err    error
}

func NewValidationError(field string, problems ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: problems}}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
