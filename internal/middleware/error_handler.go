package middleware

import (
	"net/http"

	"megaMart/pkg/logger"

	jsonres "megaMart/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler: anything a handler did not
// turn into a response itself becomes a structured JSON error.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", err, "path", c.Path())
	}

	_ = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
}
