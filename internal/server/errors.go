package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/types"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrBadRequest indicates a request that could not be decoded.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *types.ValidationError
		schema     *schemas.ValidationError
		badRequest *ErrBadRequest
		notFound   *types.NotFoundError
		conflict   *types.ConflictError
		creds      *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &schema), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// errorBody builds the response body for err. Internal errors are not echoed.
func errorBody(err error) ErrorBody {
	var (
		validation *types.ValidationError
		schema     *schemas.ValidationError
		badRequest *ErrBadRequest
		notFound   *types.NotFoundError
		conflict   *types.ConflictError
		creds      *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &validation):
		return ErrorBody{Error: "validation_error", Message: validation.Message, Field: validation.Field}
	case errors.As(err, &schema):
		body := ErrorBody{Error: "validation_error", Message: "document does not match schema"}
		if len(schema.Errors) > 0 {
			body.Field = schema.Errors[0].Field
			body.Message = schema.Errors[0].Message
		}
		return body
	case errors.As(err, &badRequest):
		return ErrorBody{Error: "bad_request", Message: badRequest.Message}
	case errors.As(err, &creds):
		return ErrorBody{Error: "invalid_credentials", Message: creds.Error()}
	case errors.As(err, &notFound):
		return ErrorBody{Error: "not_found", Message: notFound.Error()}
	case errors.As(err, &conflict):
		return ErrorBody{Error: conflict.Reason, Message: conflict.Message}
	default:
		return ErrorBody{Error: "internal_error", Message: "Internal server error"}
	}
}
