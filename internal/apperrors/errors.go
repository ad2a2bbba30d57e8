package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrIntegrityConflict = errors.New("integrity conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationErrors maps a field name to a user facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is matches ErrValidation, and any ValidationErrors carrying the same field
// messages so the duplicate sentinels below work with errors.Is.
func (v ValidationErrors) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	t, ok := target.(ValidationErrors)
	if !ok || len(t) != len(v) {
		return false
	}
	for field, msg := range t {
		if got, ok := v[field]; !ok || got != msg {
			return false
		}
	}
	return true
}

func Field(field, message string) ValidationErrors {
	return ValidationErrors{field: message}
}

// Fields extracts field messages from err, if it carries any.
func Fields(err error) map[string]string {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v
	}
	return nil
}

var (
	ErrDuplicateEmail    = Field("email", "A user with this email already exists.")
	ErrDuplicateContact  = Field("contact_number", "This contact number is already in use.")
	ErrDuplicateUsername = Field("username", "A user with this username already exists.")
)

// RowError describes an import row that was skipped.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
