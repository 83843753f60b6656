package observability

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest(HTTPRequest{Service: "ofinspect", Method: "POST", Path: "/decode/:target", Target: "actions", Status: 200, Duration: 12 * time.Millisecond})
	RecordCodec("decode", "action", 16, nil)
}

func TestRecordCodecCountsErrorKinds(t *testing.T) {
	before := testutil.ToFloat64(codecErrors.WithLabelValues("decode_test", "truncated"))
	err := fmt.Errorf("wrapped: %w", protocol.Errorf("u16", 3, protocol.ErrTruncated, "have 1 bytes"))
	RecordCodec("decode_test", "meter_band", 1, err)
	RecordCodec("decode_test", "meter_band", 0, errors.New("boom"))

	if got := testutil.ToFloat64(codecErrors.WithLabelValues("decode_test", "truncated")); got != before+1 {
		t.Fatalf("expected truncated count %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(codecErrors.WithLabelValues("decode_test", "other")); got < 1 {
		t.Fatalf("expected other kind recorded, got %v", got)
	}
	if got := testutil.ToFloat64(codecOperations.WithLabelValues("decode_test", "meter_band", "error")); got < 2 {
		t.Fatalf("expected 2 error results, got %v", got)
	}
}

func TestMiddlewareRecordsRoutes(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), RequestMetricsMiddleware("middleware-test"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("middleware-test", "GET", "/health", NoTarget, "204", "ok")); got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}
}

func TestMiddlewareLabelsDecodeTargetAndKind(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&logs)), RequestMetricsMiddleware("target-test"))
	r.POST("/decode/:target", func(c *gin.Context) {
		if c.Param("target") == "actions" {
			TagRequest(c, "actions", protocol.Errorf("action list", 4, protocol.ErrTruncated, "have 2 bytes"))
			c.Status(http.StatusUnprocessableEntity)
			return
		}
		TagRequest(c, "match", nil)
		c.Status(http.StatusOK)
	})

	for _, target := range []string{"actions", "match"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/decode/"+target, strings.NewReader("{}")))
	}

	failed := httpRequests.WithLabelValues("target-test", "POST", "/decode/:target", "actions", "422", "truncated")
	if got := testutil.ToFloat64(failed); got != 1 {
		t.Fatalf("expected one truncated actions request, got %v", got)
	}
	ok := httpRequests.WithLabelValues("target-test", "POST", "/decode/:target", "match", "200", "ok")
	if got := testutil.ToFloat64(ok); got != 1 {
		t.Fatalf("expected one ok match request, got %v", got)
	}
	line := strings.SplitN(logs.String(), "\n", 2)[0]
	for _, want := range []string{`"level":"warn"`, `"target":"actions"`, `"kind":"truncated"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in log line, got %s", want, line)
		}
	}
}
