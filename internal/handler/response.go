package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}

// HTTPErrorHandler renders errors that reach echo (unmatched routes,
// wrong methods, panics) with the same body as handler errors.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		resp := NewErrorResponse("internal_error", "Internal server error")

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch he.Code {
			case http.StatusNotFound:
				resp = NewErrorResponse("not_found", "Not found")
			case http.StatusMethodNotAllowed:
				resp = NewErrorResponse("method_not_allowed", "Method not allowed")
			default:
				if he.Code < http.StatusInternalServerError {
					resp = NewErrorResponse("http_error", http.StatusText(he.Code))
				}
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
