package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// errorBody is the error envelope returned by every endpoint.
type errorBody struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAuthExpired:
		return http.StatusUnauthorized
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case domain.KindUpstreamFailure:
		return http.StatusServiceUnavailable
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates an error into the envelope. Internal details never
// leave the process; unclassified errors get a generic message.
func writeError(c echo.Context, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return c.JSON(statusFor(derr.Kind), errorBody{Error: derr.Message, Kind: derr.Kind})
	}
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
}
