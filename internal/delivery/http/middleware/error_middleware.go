package middleware

import (
	"errors"
	"net/http"

	"skillsync-backend/internal/delivery/http/response"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgUnexpected = "An unexpected error occurred. Please try again later."

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			response.Error(c, appErr.Code, appErr.Message)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.ErrorContext(c.Request.Context(), "request failed",
			"request_id", requestID(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, msgUnexpected)
	}
}
