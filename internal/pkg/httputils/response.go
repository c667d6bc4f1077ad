// Package httputils renders the service's response envelopes.
package httputils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/pkg/utils/errors"
)

// ErrorResponse is the failure envelope. Details carries the underlying
// cause for operators and is omitted when there is none.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteError renders any error as the {message, details} envelope with the
// status carried by its Errno. Client errors are logged at info level only;
// server-side failures are logged as errors with the cause.
func WriteError(c *gin.Context, err error) {
	errno := errors.FromError(err)
	status := errno.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed",
			"path", c.FullPath(),
			"code", errno.Code,
			"message", errno.Message,
			"details", errno.Details())
	} else {
		logger.Infow("request rejected",
			"path", c.FullPath(),
			"status", status,
			"message", errno.Message)
	}

	c.JSON(status, ErrorResponse{
		Message: errno.Message,
		Details: errno.Details(),
	})
}

// WriteOK renders a success payload as-is with status 200.
func WriteOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
