package hander

import (
	"englishtalk/domain"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}
type BaseHandler struct {
}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}
func (h *BaseHandler) NewResponseWithData(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func (h *BaseHandler) NewResponseWithError(c echo.Context, msg string, err error) error {
	return c.JSON(StatusFor(err), Response{
		Success: false,
		Message: fmt.Sprintf("%s: %s", msg, err.Error()),
	})
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrAvatarNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownTopic),
		errors.Is(err, domain.ErrUnknownLevel),
		errors.Is(err, domain.ErrUnknownTeacher),
		errors.Is(err, domain.ErrUnknownScreen),
		errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTurnInFlight),
		errors.Is(err, domain.ErrCaptureActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCaptureUnavailable),
		errors.Is(err, domain.ErrSessionClosed),
		errors.Is(err, domain.ErrStoreDisabled):
		return http.StatusServiceUnavailable
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
