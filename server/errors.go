package server

import (
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"

	"library-catalog/library"
)

var statusByCode = map[string]int{
	library.CodeDuplicateKey:    http.StatusConflict,
	library.CodeAlreadyBorrowed: http.StatusConflict,
	library.CodeAlreadyReturned: http.StatusConflict,
	library.CodeUnavailable:     http.StatusConflict,
	library.CodeNotFound:        http.StatusNotFound,
	library.CodeInvalidArgument: http.StatusUnprocessableEntity,
}

type errorHandler struct{}

func newErrorHandler() *errorHandler {
	return &errorHandler{}
}

// Handle is an Echo error handler that maps catalog errors to HTTP statuses.
// Anything it doesn't recognize is an internal server error.
func (h *errorHandler) Handle(err error, c echo.Context) {
	var he *echo.HTTPError
	if !errors.As(err, &he) && errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, payload := h.generatePayload(err)

	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if err := c.JSON(httpCode, payload); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *errorHandler) generatePayload(err error) (int, map[string]interface{}) {
	code := "internal_server_error"
	msg := "Internal Server Error"
	httpCode := http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		httpCode = he.Code
		msg = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		code = strcase.ToSnake(http.StatusText(he.Code))
	}

	var le *library.Error
	if errors.As(err, &le) {
		code = le.Code
		msg = le.Message
		httpCode = http.StatusInternalServerError
		if s, ok := statusByCode[le.Code]; ok {
			httpCode = s
		}
	}

	return httpCode, map[string]interface{}{
		"error": map[string]interface{}{
			"code":        code,
			"message":     msg,
			"status_code": httpCode,
		},
	}
}
