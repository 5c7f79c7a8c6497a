package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMetricsIndependentRegistries(t *testing.T) {
	// Two collectors must not collide on registration
	a := NewMetrics()
	b := NewMetrics()

	a.RecordCommand("filesystem.read", true, "", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CommandCalls.WithLabelValues("filesystem.read", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CommandCalls.WithLabelValues("filesystem.read", "success")))
}

func TestRecordCommand(t *testing.T) {
	m := NewMetrics()

	m.RecordCommand("filesystem.delete", false, "not_found", time.Millisecond)
	m.RecordCommand("filesystem.delete", false, "", time.Millisecond)
	m.RecordCommand("filesystem.delete", true, "", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("filesystem.delete", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("filesystem.delete", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandErrors.WithLabelValues("filesystem.delete", "unknown")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalCommands)
	assert.Equal(t, int64(2), snap.FailedCommands)
}

func TestRecordCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordCopy("install", &filesystem.CopyReport{
		Files:   3,
		Bytes:   1024,
		Skipped: []filesystem.SkippedEntry{{Path: "/x", Reason: "permission denied"}},
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CopiedFiles.WithLabelValues("install")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.CopiedBytes.WithLabelValues("install")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedEntries.WithLabelValues("install")))
	assert.Equal(t, int64(1), m.Snapshot().SkippedEntries)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/items/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "aiop_http_requests_total")
	assert.Contains(t, string(body), "aiop_uptime_seconds")
}

func TestTimer(t *testing.T) {
	m := NewMetrics()
	timer := NewTimer(m, "extensions.list")
	timer.Stop(true, "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("extensions.list", "success")))

	// nil metrics is a no-op
	NewTimer(nil, "x").Stop(false, "io_failure")
}
