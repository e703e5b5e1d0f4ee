package apperrors

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware renders the last error attached to the gin context.
func Middleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		if appErr.Kind == KindInternal {
			log.Error("request failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("path", c.Request.URL.Path),
				zap.Error(appErr.Err),
			)
		}

		body := gin.H{"error": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["details"] = appErr.Fields
		}
		c.AbortWithStatusJSON(appErr.Code, body)
	}
}
