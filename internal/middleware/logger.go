package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hotel/internal/pkg/metrics"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger logs every request once it completes, recovers panics into
// a 500 envelope and records latency.
func RequestLogger(log *logrus.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				entry(log, c, start).WithFields(logrus.Fields{
					"panic": fmt.Sprint(recovered),
					"stack": string(debug.Stack()),
				}).Error("request panicked")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))

			e := entry(log, c, start)
			switch {
			case len(c.Errors) > 0:
				e.WithField("errors", c.Errors.String()).Error("request failed")
			case c.Writer.Status() >= http.StatusInternalServerError:
				e.Error("request failed")
			default:
				e.Info("request handled")
			}
		}()

		c.Next()
	}
}

func entry(log *logrus.Logger, c *gin.Context, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(ctxUserID),
		"role":       c.GetString(ctxRole),
		"request_id": c.GetString("request_id"),
		"latency":    time.Since(start).String(),
	})
}
