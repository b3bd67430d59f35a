package httpError

import "net/http"

// CommonError is the error shape every layer below delivery returns.
// Message may be overwritten by the caller with a more specific reason.
type CommonError struct {
	Code         int    `json:"code"`
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{
		Code:         http.StatusBadRequest,
		ResponseCode: "BAD_REQUEST",
		Message:      "bad request",
	}
}

func NewUnauthorized() *CommonError {
	return &CommonError{
		Code:         http.StatusUnauthorized,
		ResponseCode: "UNAUTHORIZED",
		Message:      "unauthorized",
	}
}

func NewForbidden() *CommonError {
	return &CommonError{
		Code:         http.StatusForbidden,
		ResponseCode: "FORBIDDEN",
		Message:      "forbidden",
	}
}

func NewNotFound() *CommonError {
	return &CommonError{
		Code:         http.StatusNotFound,
		ResponseCode: "NOT_FOUND",
		Message:      "not found",
	}
}

func NewConflict() *CommonError {
	return &CommonError{
		Code:         http.StatusConflict,
		ResponseCode: "CONFLICT",
		Message:      "conflict",
	}
}

func NewInternalServerError() *CommonError {
	return &CommonError{
		Code:         http.StatusInternalServerError,
		ResponseCode: "INTERNAL_SERVER_ERROR",
		Message:      "something went wrong, please retry",
	}
}

// IsCode reports whether err is a CommonError with the given HTTP code.
func IsCode(err error, code int) bool {
	commonErr, ok := err.(*CommonError)
	return ok && commonErr.Code == code
}
