package ui

import (
	"net/http"

	"paxboard/internal"
	"paxboard/internal/errors"
)

// errorBody is the JSON shape of every API error
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorResponse maps err to a status and body, logging server-side failures.
func errorResponse(logger *internal.Logger, err error) (int, errorBody) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	return status, errorBody{Error: err.Error(), Code: errors.GetCode(err)}
}
