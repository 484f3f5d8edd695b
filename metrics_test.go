package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func TestMetricsMiddleware_LabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(metricsMiddleware())
	router.GET("/api/clients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(metricsHandler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/clients/:id", "200"))
	for _, path := range []string{"/api/clients/1", "/api/clients/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/clients/:id", "200"))
	if after-before != 2 {
		t.Errorf("expected 2 requests counted under the route template, got %v", after-before)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `fitgenius_http_requests_total{method="GET",route="/api/clients/:id",status="200"}`) {
		t.Error("request counter missing from exposition")
	}
	if strings.Contains(body, `route="/metrics"`) {
		t.Error("/metrics should not count itself")
	}
}

func TestRecordCalculationAndCache(t *testing.T) {
	okBefore := testutil.ToFloat64(calculationsTotal.WithLabelValues(outcomeOK))
	hitBefore := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))

	recordCalculation(outcomeOK)
	recordCacheLookup(true)

	if got := testutil.ToFloat64(calculationsTotal.WithLabelValues(outcomeOK)) - okBefore; got != 1 {
		t.Errorf("calculations ok delta = %v", got)
	}
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("hit")) - hitBefore; got != 1 {
		t.Errorf("cache hit delta = %v", got)
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "info", Format: "json"})
	logger.SetOutput(&buf)

	router := gin.New()
	router.Use(requestLogger(logger))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected echoed request id, got %q", got)
	}
	if !strings.Contains(buf.String(), `"request_id":"req-123"`) || !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("unexpected log line: %s", buf.String())
	}

	// Without an incoming ID one is generated.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected a generated uuid, got %q", got)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	if got := newLogger(LoggingConfig{Level: "debug"}).GetLevel(); got != logrus.DebugLevel {
		t.Errorf("debug level = %v", got)
	}
	if got := newLogger(LoggingConfig{Level: "nonsense"}).GetLevel(); got != logrus.InfoLevel {
		t.Errorf("unknown level should fall back to info, got %v", got)
	}
	if _, isText := newLogger(LoggingConfig{}).Formatter.(*logrus.TextFormatter); !isText {
		t.Error("default formatter should be text")
	}
}
