package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/service"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Definition() types.Service {
	return types.Service{
		ID:       "slow",
		Name:     "Slow",
		Category: types.CategoryFilesystem,
		Tools:    []types.Tool{{ID: "slow.wait", Name: "Wait"}},
	}
}

func (p *slowProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	time.Sleep(p.delay)
	return filesystem.Success(map[string]interface{}{"waited": p.delay.String()})
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(filesystem.NewProvider(filesystem.New(filesystem.DefaultOptions(), nil), true, nil)))
	require.NoError(t, service.RegisterLegacyCommands(registry))
	return NewHandler(registry, monitoring.NewMetrics(), nil)
}

func dial(t *testing.T) (*websocket.Conn, *monitoring.Metrics) {
	t.Helper()
	h := newTestHandler(t)
	return dialHandler(t, h), h.metrics
}

func dialHandler(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ipc", h.HandleConnection)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ipc", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var welcome types.IPCReply
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "system", welcome.Type)
	assert.True(t, strings.HasPrefix(welcome.ID, "conn_"))
	return conn
}

func TestPing(t *testing.T) {
	conn, _ := dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"p1","cmd":"ping"}`)))
	var reply types.IPCReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "p1", reply.ID)
	assert.Equal(t, "pong", reply.Type)
}

func TestInvalidFrame(t *testing.T) {
	conn, _ := dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	var reply types.IPCReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.False(t, reply.Success)
	require.NotNil(t, reply.Error)
	assert.Contains(t, *reply.Error, "invalid IPC frame")

	require.NoError(t, conn.WriteJSON(types.IPCMessage{ID: "2", Cmd: "ping"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply.Type)
}

func TestOpenFolderOverIPC(t *testing.T) {
	conn, metrics := dial(t)
	dir := t.TempDir()

	require.NoError(t, conn.WriteJSON(types.IPCMessage{
		ID:   "1",
		Cmd:  "open_folder",
		Args: map[string]interface{}{"path": dir},
	}))

	var reply types.IPCReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "1", reply.ID)
	assert.True(t, reply.Success)
	assert.Equal(t, "[]", reply.Data["json"])

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WSConnections))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommandCalls.WithLabelValues("open_folder", "success")))
}

func TestConnectionSurvivesLongCommand(t *testing.T) {
	h := newTestHandler(t)
	require.NoError(t, h.registry.Register(&slowProvider{delay: 400 * time.Millisecond}))
	h.pongWait = 150 * time.Millisecond
	conn := dialHandler(t, h)

	require.NoError(t, conn.WriteJSON(types.IPCMessage{ID: "slow", Cmd: "slow.wait"}))
	var reply types.IPCReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "slow", reply.ID)
	assert.True(t, reply.Success)

	require.NoError(t, conn.WriteJSON(types.IPCMessage{ID: "after", Cmd: "ping"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "after", reply.ID)
	assert.Equal(t, "pong", reply.Type)
}
