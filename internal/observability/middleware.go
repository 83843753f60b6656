package observability

import (
	"time"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	targetKey = "ofwire.decode_target"

	// NoTarget labels requests that did not address a codec family.
	NoTarget = "none"
	kindOK   = "ok"
)

// TagRequest records which codec family a request decoded and the codec
// error it failed with, if any. target must come from a fixed set since
// it becomes a metric label.
func TagRequest(c *gin.Context, target string, err error) {
	c.Set(targetKey, target)
	if err != nil {
		_ = c.Error(err)
	}
}

func requestTarget(c *gin.Context) string {
	if t := c.GetString(targetKey); t != "" {
		return t
	}
	return NoTarget
}

func requestKind(c *gin.Context) string {
	if e := c.Errors.Last(); e != nil {
		return protocol.Kind(e.Err)
	}
	return kindOK
}

func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return c.Request.URL.Path
}

func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		if target := requestTarget(c); target != NoTarget {
			event = event.Str("target", target)
		}
		if e := c.Errors.Last(); e != nil {
			event = event.Str("kind", protocol.Kind(e.Err)).AnErr("decode_error", e.Err)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg("http_request")
	}
}

func RequestMetricsMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		RecordHTTPRequest(HTTPRequest{
			Service:  service,
			Method:   c.Request.Method,
			Path:     routePath(c),
			Target:   requestTarget(c),
			Status:   c.Writer.Status(),
			Kind:     requestKind(c),
			Duration: time.Since(start),
		})
	}
}
