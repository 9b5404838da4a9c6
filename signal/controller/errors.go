package controller

import (
	"context"
	"errors"
	"net/http"
	"sfu/coordinator"
	"sfu/types/client/response"
)

// Below is the error list of the controllers.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")
	ErrDisconnected = errors.New("connection closed")
)

// Error codes of failed requests.
const (
	CodeOK                       = "OK"
	CodeNotFound                 = "NOT_FOUND"
	CodeDuplicatePeer            = "DUPLICATE_PEER"
	CodeInvalidState             = "INVALID_STATE"
	CodeIncompatibleCapabilities = "INCOMPATIBLE_CAPABILITIES"
	CodeBadRequest               = "BAD_REQUEST"
	CodeRateLimited              = "RATE_LIMITED"
	CodeTimeout                  = "TIMEOUT"
	CodeEngineFatal              = "ENGINE_FATAL"
	CodeInternal                 = "INTERNAL"
)

var codes = []struct {
	err    error
	code   string
	status int
}{
	{coordinator.ErrNotFound, CodeNotFound, http.StatusNotFound},
	{coordinator.ErrDuplicatePeer, CodeDuplicatePeer, http.StatusConflict},
	{coordinator.ErrInvalidState, CodeInvalidState, http.StatusConflict},
	{coordinator.ErrIncompatibleCapabilities, CodeIncompatibleCapabilities, http.StatusUnprocessableEntity},
	{coordinator.ErrInvalidArgument, CodeBadRequest, http.StatusBadRequest},
	{ErrBadRequest, CodeBadRequest, http.StatusBadRequest},
	{ErrRateLimited, CodeRateLimited, http.StatusTooManyRequests},
	{coordinator.ErrTimeout, CodeTimeout, http.StatusGatewayTimeout},
	{context.DeadlineExceeded, CodeTimeout, http.StatusGatewayTimeout},
	{coordinator.ErrEngineFatal, CodeEngineFatal, http.StatusServiceUnavailable},
}

// Status returns the error code and the HTTP status of the error.
func Status(err error) (string, int) {
	if err == nil {
		return CodeOK, http.StatusOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code, c.status
		}
	}
	return CodeInternal, http.StatusInternalServerError
}

// toError builds the error body. The message is hidden unless debug is set.
func toError(err error, debug bool) (*response.Error, int) {
	code, status := Status(err)
	e := &response.Error{Code: code}
	if debug {
		e.Message = err.Error()
	}
	return e, status
}
