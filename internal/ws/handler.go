package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AIOP/backend/internal/api/http"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AIOP/backend/internal/service"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/id"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/utils"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // local desktop shell
	},
}

// Handler manages IPC WebSocket connections
type Handler struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	pongWait time.Duration
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *service.Registry, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		pongWait: pongWait,
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := id.NewConnectionID()
	logger := h.logger.With(zap.String("conn_id", string(connID)))
	logger.Debug("IPC connection opened")

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	conn.SetReadLimit(utils.MaxIPCFrame)
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(conn, done)

	h.send(conn, types.IPCReply{
		ID:      string(connID),
		Type:    "system",
		Success: true,
		Data:    map[string]interface{}{"message": "Connected to AIOP backend"},
	})

	reqCtx := c.Request.Context()
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}
		h.record("in")

		var msg types.IPCMessage
		if err := sonic.Unmarshal(frame, &msg); err != nil {
			h.sendError(conn, "", "invalid IPC frame: "+err.Error())
			continue
		}
		if msg.ID == "" {
			msg.ID = string(id.NewMessageID())
		}

		if msg.Cmd == "ping" {
			h.send(conn, types.IPCReply{ID: msg.ID, Type: "pong", Success: true})
			continue
		}

		result, _ := apihttp.Dispatch(reqCtx, h.registry, h.metrics, msg.Cmd, msg.Args)
		h.send(conn, types.IPCReply{
			ID:      msg.ID,
			Type:    "result",
			Success: result.Success,
			Data:    result.Data,
			Error:   result.Error,
			Kind:    result.Kind,
		})
		// Pongs are not read while a command runs
		conn.SetReadDeadline(time.Now().Add(h.pongWait))
	}
	logger.Debug("IPC connection closed")
}

func (h *Handler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.pongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, reply types.IPCReply) error {
	data, err := sonic.Marshal(reply)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.record("out")
	return nil
}

func (h *Handler) sendError(conn *websocket.Conn, msgID, msg string) error {
	return h.send(conn, types.IPCReply{
		ID:    msgID,
		Type:  "error",
		Error: &msg,
		Kind:  "invalid_argument",
	})
}

func (h *Handler) record(direction string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction)
	}
}
