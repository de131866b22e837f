package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedPath labels requests that no route handled, keeping label cardinality bounded
const unmatchedPath = "unmatched"

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
