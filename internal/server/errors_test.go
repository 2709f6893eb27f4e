package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "validation",
			err:      &types.ValidationError{Field: "email", Message: "invalid format"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "schema validation",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "0.slug", Message: "required"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "bad request",
			err:      &ErrBadRequest{Message: "Invalid request body"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "invalid credentials",
			err:      &ErrInvalidCredentials{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "not found",
			err:      &types.NotFoundError{Resource: "slot"},
			expected: http.StatusNotFound,
		},
		{
			name:     "wrapped conflict",
			err:      fmt.Errorf("failed to book: %w", types.NewSlotTaken()),
			expected: http.StatusConflict,
		},
		{
			name:     "generic error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorBody
	}{
		{
			name: "validation names the field",
			err:  &types.ValidationError{Field: "score", Message: "must be at most 100"},
			want: ErrorBody{Error: "validation_error", Message: "must be at most 100", Field: "score"},
		},
		{
			name: "schema uses first error",
			err:  &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "0.slug", Message: "slug is required"}}},
			want: ErrorBody{Error: "validation_error", Message: "slug is required", Field: "0.slug"},
		},
		{
			name: "conflict reason is the code",
			err:  types.NewAlreadyScheduled(),
			want: ErrorBody{Error: types.ReasonAlreadyScheduled, Message: "This application already has a scheduled slot"},
		},
		{
			name: "booked slot",
			err:  types.NewSlotBooked("delete"),
			want: ErrorBody{Error: types.ReasonSlotBooked, Message: "Cannot delete a booked slot"},
		},
		{
			name: "not found",
			err:  &types.NotFoundError{Resource: "job", ID: "x"},
			want: ErrorBody{Error: "not_found", Message: "job not found: x"},
		},
		{
			name: "internal errors are not echoed",
			err:  errors.New("password=hunter2"),
			want: ErrorBody{Error: "internal_error", Message: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorBody(tt.err))
		})
	}
}
