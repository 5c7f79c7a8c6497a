package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// UnknownCommand labels commands that resolve to no registered tool
const UnknownCommand = "unknown"

// Timer measures command duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	command string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, command string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		command: command,
	}
}

// Stop stops the timer and records the command outcome
func (t *Timer) Stop(success bool, kind string) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordCommand(t.command, success, kind, time.Since(t.start))
}
