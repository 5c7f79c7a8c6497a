package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/service"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, logger *zap.Logger) (*gin.Engine, *monitoring.Metrics) {
	t.Helper()

	registry := service.NewRegistry()
	ops := filesystem.New(filesystem.DefaultOptions(), nil)
	require.NoError(t, registry.Register(filesystem.NewProvider(ops, true, nil)))
	require.NoError(t, service.RegisterLegacyCommands(registry))

	metrics := monitoring.NewMetrics()
	h := NewHandlers(registry, metrics, logger)

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/services", h.ListServices)
	router.POST("/invoke", h.Invoke)
	router.POST("/invoke/:command", h.InvokeCommand)
	router.POST("/logs", h.IngestLogs)
	return router, metrics
}

func post(router *gin.Engine, path, body string) (*httptest.ResponseRecorder, types.Result) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var result types.Result
	_ = sonic.Unmarshal(w.Body.Bytes(), &result)
	return w, result
}

func TestRootAndHealth(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "online")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	stats := body["service_registry"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_services"])
}

func TestListServices(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services?category=filesystem", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filesystem.list")
	assert.Contains(t, w.Body.String(), "open_folder")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services?category=Bad_Cat", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvokeWriteReadDelete(t *testing.T) {
	router, metrics := setupRouter(t, nil)
	path := filepath.Join(t.TempDir(), "note.txt")
	args, _ := sonic.MarshalString(map[string]string{"path": path, "content": "hello"})

	w, result := post(router, "/invoke/filesystem.write", args)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, result.Success)
	assert.Equal(t, filesystem.StatusOK, result.Data["status"])

	pathArg, _ := sonic.MarshalString(map[string]string{"path": path})
	w, result = post(router, "/invoke/get_file_content", pathArg)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", result.Data["content"])

	w, result = post(router, "/invoke/delete_file", `{"args":`+pathArg+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, result.Success)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	w, result = post(router, "/invoke/delete_file", pathArg)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, result.Error)
	assert.Equal(t, "Path does not exist", *result.Error)
	assert.Equal(t, string(filesystem.NotFound), result.Kind)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 4, snap.TotalCommands)
	assert.EqualValues(t, 1, snap.FailedCommands)
}

func TestInvokeRequestBody(t *testing.T) {
	router, _ := setupRouter(t, nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))

	body, _ := sonic.MarshalString(types.InvokeRequest{
		Command: "open_folder",
		Args:    map[string]interface{}{"path": dir},
	})
	w, result := post(router, "/invoke", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, result.Success)
	assert.EqualValues(t, 1, result.Data["count"])
}

func TestInvokeStatusCodes(t *testing.T) {
	router, _ := setupRouter(t, nil)
	missing, _ := sonic.MarshalString(map[string]string{"path": filepath.Join(t.TempDir(), "missing")})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		kind   string
	}{
		{"unknown service", "/invoke/nope.run", `{}`, http.StatusNotFound, "unknown_command"},
		{"unknown alias", "/invoke/launch_rocket", `{}`, http.StatusNotFound, "unknown_command"},
		{"invalid command", "/invoke/bad%20cmd", `{}`, http.StatusBadRequest, "invalid_argument"},
		{"strict read missing", "/invoke/read_file", missing, http.StatusNotFound, "not_found"},
		{"missing param", "/invoke/filesystem.read_strict", `{}`, http.StatusBadRequest, "invalid_argument"},
		{"null byte path", "/invoke/filesystem.list", `{"path":"a\u0000b"}`, http.StatusBadRequest, "invalid_argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, result := post(router, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, result.Success)
			assert.Equal(t, tt.kind, result.Kind)
		})
	}
}

func TestUnknownCommandsShareMetricLabel(t *testing.T) {
	router, metrics := setupRouter(t, nil)

	for _, path := range []string{"/invoke/nope.run", "/invoke/launch_rocket", "/invoke/filesystem.bogus"} {
		post(router, path, `{}`)
	}
	post(router, "/invoke/open_folder", `{"folderPath":"`+filepath.ToSlash(t.TempDir())+`"}`)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CommandCalls.WithLabelValues(monitoring.UnknownCommand, "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CommandCalls.WithLabelValues("open_folder", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.CommandCalls))
}

func TestInvokeMalformedBody(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w, _ := post(router, "/invoke/filesystem.list", `{"path":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = post(router, "/invoke/filesystem.list", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	router, metrics := setupRouter(t, zap.New(core))

	w := httptest.NewRecorder()
	body := `{"entries":[
		{"level":"error","message":"copy failed","command":"move_extension","request_id":"req-1","fields":{"component":"ExtensionsPanel"}},
		{"level":"WARNING","message":"slow listing"},
		{"level":"trace","message":"mounted"},
		{"level":"info","message":"  "}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted":3`)
	assert.Contains(t, w.Body.String(), `"rejected":1`)

	require.Equal(t, 1, logs.FilterMessage("copy failed").Len())
	entry := logs.FilterMessage("copy failed").All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, "frontend", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "move_extension", fields["command"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "ExtensionsPanel", fields["component"])

	assert.Equal(t, zap.WarnLevel, logs.FilterMessage("slow listing").All()[0].Level)
	assert.Equal(t, zap.InfoLevel, logs.FilterMessage("mounted").All()[0].Level)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FrontendLogs.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FrontendLogs.WithLabelValues("warn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FrontendLogs.WithLabelValues("info")))
}

func TestIngestLogsRejectsBadBatches(t *testing.T) {
	router, _ := setupRouter(t, nil)

	entries := make([]FrontendLog, MaxFrontendLogBatch+1)
	for i := range entries {
		entries[i] = FrontendLog{Level: "info", Message: "tick"}
	}
	tooMany, err := sonic.MarshalString(FrontendLogBatch{Entries: entries})
	require.NoError(t, err)

	for _, body := range []string{`{"entries":[]}`, `not json`, tooMany} {
		w, _ := post(router, "/logs", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
