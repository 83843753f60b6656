package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/observability"
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrUnknownTarget = errors.New("unknown decode target")

var decodeTargets = map[string]bool{
	"actions":        true,
	"instructions":   true,
	"match":          true,
	"table-features": true,
	"message":        true,
}

// targetLabel keeps request metrics bounded to the known targets.
func targetLabel(target string) string {
	if decodeTargets[target] {
		return target
	}
	return "unknown"
}

// DecodeRequest is the body of POST /decode/:target. Version is ignored
// for messages, which carry their own.
type DecodeRequest struct {
	Version string `json:"version"`
	Hex     string `json:"hex" binding:"required"`
}

func (s *Inspector) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.Started).String(),
			"inspector": s.Name,
			"version":   "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/registry", func(c *gin.Context) {
		versions := make([]string, 0, len(s.Versions))
		for _, v := range s.Versions {
			versions = append(versions, v.String())
		}
		c.JSON(http.StatusOK, gin.H{
			"versions": versions,
			"vendors":  s.Vendors,
			"codecs":   s.reg.Len(),
		})
	})

	s.router.POST("/decode/:target", func(c *gin.Context) {
		target := c.Param("target")
		var req DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.TagRequest(c, targetLabel(target), err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		out, err := s.Decode(target, req)
		observability.TagRequest(c, targetLabel(target), err)
		if err != nil {
			c.JSON(statusOf(err), gin.H{"error": err.Error(), "kind": protocol.Kind(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "target": target, "result": out})
	})
}

// Decode runs one decode request. The result is ready for JSON encoding.
func (s *Inspector) Decode(target string, req DecodeRequest) (any, error) {
	if target == "message" {
		m, err := codec.DecodeMessageHex(s.reg, req.Hex, s.opts)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"version": m.Header.Version.String(),
			"type":    m.Header.Type,
			"xid":     m.Header.XID,
			"kind":    m.Kind,
			"body":    codec.Describe(m.Body),
		}, nil
	}

	v, err := protocol.ParseVersion(req.Version)
	if err != nil {
		return nil, err
	}
	switch target {
	case "actions":
		got, err := codec.DecodeActionsHex(s.reg, v, req.Hex)
		if err != nil {
			return nil, err
		}
		return codec.DescribeAll(got), nil
	case "instructions":
		got, err := codec.DecodeInstructionsHex(s.reg, v, req.Hex)
		if err != nil {
			return nil, err
		}
		return codec.DescribeAll(got), nil
	case "match":
		got, err := codec.DecodeMatchHex(s.reg, v, req.Hex)
		if err != nil {
			return nil, err
		}
		return codec.Describe(got), nil
	case "table-features":
		got, err := codec.DecodeTableFeaturesHex(s.reg, v, req.Hex)
		if err != nil {
			return nil, err
		}
		return codec.DescribeAll(got), nil
	default:
		return nil, ErrUnknownTarget
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, protocol.ErrUnsupportedVersion):
		return http.StatusBadRequest
	case protocol.Kind(err) != "other":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
