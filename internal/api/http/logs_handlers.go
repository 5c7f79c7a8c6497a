package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/AIOP/backend/internal/api/middleware"
)

// MaxFrontendLogBatch caps the entries accepted per POST /logs
const MaxFrontendLogBatch = 200

// FrontendLog is one log line forwarded by the desktop front-end.
// Command and RequestID tie the line to the bridge call it describes.
type FrontendLog struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Command   string                 `json:"command,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Time      string                 `json:"time,omitempty"`
}

// FrontendLogBatch is the body of POST /logs
type FrontendLogBatch struct {
	Entries []FrontendLog `json:"entries"`
}

var frontendLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

// IngestLogs writes front-end log lines into the backend log under the
// "frontend" logger and counts them per level
func (h *Handlers) IngestLogs(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.payload.ValidateJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var batch FrontendLogBatch
	if err := sonic.Unmarshal(body, &batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid log batch"})
		return
	}
	switch n := len(batch.Entries); {
	case n == 0:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no log entries"})
		return
	case n > MaxFrontendLogBatch:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "too many log entries"})
		return
	}

	logger := h.logger.Named("frontend")
	requestID := middleware.GetRequestID(c)
	accepted := 0
	for _, entry := range batch.Entries {
		if strings.TrimSpace(entry.Message) == "" {
			continue
		}
		level, ok := frontendLevels[strings.ToLower(entry.Level)]
		if !ok {
			level = zapcore.InfoLevel
		}
		if ce := logger.Check(level, entry.Message); ce != nil {
			ce.Write(frontendFields(entry, requestID)...)
		}
		if h.metrics != nil {
			h.metrics.RecordFrontendLog(level.String())
		}
		accepted++
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"accepted": accepted,
		"rejected": len(batch.Entries) - accepted,
	})
}

func frontendFields(entry FrontendLog, requestID string) []zap.Field {
	fields := make([]zap.Field, 0, len(entry.Fields)+3)
	if entry.Command != "" {
		fields = append(fields, zap.String("command", entry.Command))
	}
	// The entry's own ID names the bridge call; fall back to the upload's
	if entry.RequestID != "" {
		requestID = entry.RequestID
	}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if entry.Time != "" {
		fields = append(fields, zap.String("frontend_time", entry.Time))
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, entry.Fields[k]))
	}
	return fields
}
