package echo

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	mimeJSON = "application/json"
	mimeForm = "application/x-www-form-urlencoded"
)

// Handlers serves the echo routes
type Handlers struct {
	logger *zap.Logger
}

// NewHandlers creates the route handlers
func NewHandlers(logger *zap.Logger) *Handlers {
	return &Handlers{logger: logger}
}

// EchoQuery replies with the query string as a JSON object
func (h *Handlers) EchoQuery(c *gin.Context) {
	query := flatten(c.Request.URL.Query())
	h.logger.Debug("query", zap.Any("query", query))
	c.JSON(http.StatusOK, query)
}

// EchoBody replies with the parsed request body. JSON and form bodies are
// understood; any other content type echoes an empty object.
func (h *Handlers) EchoBody(c *gin.Context) {
	var body any = map[string]any{}

	switch c.ContentType() {
	case mimeJSON:
		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}
		parsed, ok := parseJSONBody(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		body = parsed
	case mimeForm:
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
			return
		}
		body = flatten(c.Request.PostForm)
	}

	h.logger.Debug("body", zap.Any("body", body))
	c.JSON(http.StatusOK, body)
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseJSONBody accepts an object or array; an empty body is an empty object
func parseJSONBody(raw []byte) (any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, true
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, false
	}

	var v any
	if err := sonic.ConfigStd.Unmarshal(trimmed, &v); err != nil {
		return nil, false
	}
	return v, true
}

// flatten maps single values to strings and repeated keys to string arrays
func flatten(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = vals[0]
		} else {
			out[key] = vals
		}
	}
	return out
}
