package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"press_admin/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorsMatchSentinel(t *testing.T) {
	err := fmt.Errorf("create account: %w", apperrors.ErrDuplicateEmail)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, map[string]string{"email": "A user with this email already exists."}, apperrors.Fields(err))
}

func TestDuplicateSentinelsAreDistinct(t *testing.T) {
	err := fmt.Errorf("tx: %w", apperrors.ErrDuplicateContact)

	assert.ErrorIs(t, err, apperrors.ErrDuplicateContact)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicateEmail)
	assert.NotErrorIs(t, apperrors.Field("email", "other"), apperrors.ErrDuplicateEmail)
}

func TestValidationErrorsMessageIsSorted(t *testing.T) {
	err := apperrors.ValidationErrors{"username": "taken", "email": "invalid"}

	assert.Equal(t, "validation failed: email: invalid; username: taken", err.Error())
}

func TestRowErrorUnwraps(t *testing.T) {
	err := &apperrors.RowError{Row: 4, Err: apperrors.ErrIntegrityConflict}

	assert.True(t, errors.Is(err, apperrors.ErrIntegrityConflict))
	assert.Equal(t, "row 4: integrity conflict", err.Error())
	assert.Nil(t, apperrors.Fields(errors.New("plain")))
}
