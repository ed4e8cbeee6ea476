package api

import "net/http"

// apiError is an error with a client-facing status and message. Validation
// errors from registration also carry code, reason and location.
type apiError struct {
	Status   int    `json:"-"`
	Code     int    `json:"code,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

var (
	errUnauthorized = &apiError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	errNotFound     = &apiError{Status: http.StatusNotFound, Message: "Not Found"}
	errInternal     = &apiError{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
)

func badRequest(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: message}
}

func conflict(message string) *apiError {
	return &apiError{Status: http.StatusConflict, Message: message}
}

func validationError(message, location string) *apiError {
	return &apiError{
		Status:   http.StatusUnprocessableEntity,
		Code:     http.StatusUnprocessableEntity,
		Reason:   "ValidationError",
		Message:  message,
		Location: location,
	}
}
