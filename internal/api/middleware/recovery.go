package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-graph/pkg/logger"
	"github.com/d60-Lab/social-graph/pkg/response"
)

// Recovery 捕获 panic：记日志、上报 sentry、回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				logger.Error("request panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("recovered", r),
				)
				sentry.CaptureException(err)
				sentry.Flush(2 * time.Second)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal error",
				})
			}
		}()
		c.Next()
	}
}
