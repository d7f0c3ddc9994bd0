package errors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrNameTaken           = errors.New("participant name already taken")
	ErrNotMessageAuthor    = errors.New("only the author can delete a message")
	ErrSenderNotRegistered = errors.New("sender is not a registered participant")
	ErrBadRequest          = errors.New("bad request")
	ErrInternalServer      = errors.New("internal server error")
)

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrNotMessageAuthor):
		return http.StatusUnauthorized
	case errors.Is(err, ErrSenderNotRegistered):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
