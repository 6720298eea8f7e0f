package middleware

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "An unexpected error occurred. Please try again later."

func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(genericErrorMessage, err)
		}

		// Causes are logged here and never written to the client.
		if appErr.Err != nil {
			log.Error(appErr.Message,
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", appErr.Code),
				zap.Error(appErr.Err))
		}

		if !c.Writer.Written() {
			response.Error(c, appErr.Code, appErr.Message)
		}
	}
}

// Recovery turns panics into a 500 carrying message, so a fault anywhere
// in the chain still yields a structured JSON body.
func Recovery(log *zap.Logger, message string) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Panic recovered",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))
		response.Error(c, http.StatusInternalServerError, message)
		c.Abort()
	})
}
