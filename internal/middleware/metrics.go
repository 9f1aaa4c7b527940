package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/pkg/middleware/requestid"
)

const unmatchedRoute = "unmatched"

// RequestObserver records per-route request timings.
type RequestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics observes every request under its route template. Requests slower
// than slow are also logged; slow <= 0 disables that.
func Metrics(observer RequestObserver, logger *zap.Logger, slow time.Duration) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		if observer != nil {
			observer.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), elapsed)
		}
		if slow > 0 && elapsed >= slow {
			logger.Warn("slow request",
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("elapsed", elapsed),
				zap.String("request_id", requestid.Value(c)),
			)
		}
	}
}
