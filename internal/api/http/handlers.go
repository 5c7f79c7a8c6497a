package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/api/middleware"
	"github.com/GriffinCanCode/AIOP/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/service"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/utils"
)

// Version reported by the root endpoint
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	payload  *utils.JSONSizeValidator
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		payload:  utils.NewJSONSizeValidator(utils.MaxInvokeSize),
		started:  time.Now(),
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "AIOP Backend (Go)",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":           "healthy",
		"uptime_seconds":   time.Since(h.started).Seconds(),
		"service_registry": h.registry.Stats(),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// ListServices lists registered services and legacy command names
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")
	if err := utils.ValidateCategory(categoryStr, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"aliases":  h.registry.Aliases(),
		"stats":    h.registry.Stats(),
	})
}

// InvokeCommand runs the command named in the path; the body holds its arguments
func (h *Handlers) InvokeCommand(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	args := map[string]interface{}{}
	if len(body) > 0 {
		if err := h.payload.ValidateJSON(body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if err := sonic.Unmarshal(body, &args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "arguments must be a JSON object"})
			return
		}
	}

	h.respond(c, c.Param("command"), args)
}

// Invoke runs a command described by an InvokeRequest body
func (h *Handlers) Invoke(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.payload.ValidateJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var req types.InvokeRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.respond(c, req.Command, req.Args)
}

func (h *Handlers) respond(c *gin.Context, command string, args map[string]interface{}) {
	result, status := Dispatch(c.Request.Context(), h.registry, h.metrics, command, args)
	if !result.Success {
		h.logger.Debug("Command failed",
			zap.String("command", command),
			zap.String("kind", result.Kind),
			zap.String("request_id", middleware.GetRequestID(c)))
	}
	c.JSON(status, result)
}

// Dispatch validates and runs a command, returning its result and the HTTP
// status that describes it
func Dispatch(ctx context.Context, registry *service.Registry, metrics *monitoring.Metrics, command string, args map[string]interface{}) (*types.Result, int) {
	if err := utils.ValidateCommand(command); err != nil {
		return failure(filesystem.InvalidArgument, err), http.StatusBadRequest
	}
	if err := utils.ValidatePathArgs(args); err != nil {
		return failure(filesystem.InvalidArgument, err), http.StatusBadRequest
	}

	label := command
	if !registry.Known(command) {
		label = monitoring.UnknownCommand
	}
	timer := monitoring.NewTimer(metrics, label)
	result, err := registry.Execute(ctx, command, args)
	if err != nil {
		if result == nil {
			result = failure(filesystem.IOFailure, err)
		}
		if result.Kind == "" {
			result.Kind = "unknown_command"
		}
		timer.Stop(false, result.Kind)
		return result, http.StatusNotFound
	}

	timer.Stop(result.Success, result.Kind)
	return result, statusFor(result)
}

func statusFor(result *types.Result) int {
	if result.Success {
		return http.StatusOK
	}
	switch filesystem.ErrorKind(result.Kind) {
	case filesystem.NotFound:
		return http.StatusNotFound
	case filesystem.InvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func failure(kind filesystem.ErrorKind, err error) *types.Result {
	if err == nil {
		err = errors.New(string(kind))
	}
	msg := err.Error()
	return &types.Result{Success: false, Error: &msg, Kind: string(kind)}
}
