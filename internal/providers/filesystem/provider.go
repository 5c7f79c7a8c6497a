package filesystem

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

// Write statuses returned by filesystem.write
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Provider exposes the Operator as registry commands
type Provider struct {
	ops    *Operator
	legacy bool
	logger *zap.Logger
}

// NewProvider creates a filesystem command provider.
// With legacyErrors set, list/read/write degrade to neutral results instead
// of failing, as the desktop shell has always expected.
func NewProvider(ops *Operator, legacyErrors bool, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{ops: ops, legacy: legacyErrors, logger: logger}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "List, read, write and delete local files",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"read",
			"write",
			"delete",
		},
		Tools: []types.Tool{
			{
				ID:          "filesystem.list",
				Name:        "List Directory",
				Description: "List direct children of a directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "filesystem.read",
				Name:        "Read File",
				Description: "Read file text (empty on failure in legacy mode)",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.read_strict",
				Name:        "Read File (strict)",
				Description: "Read file text, reporting any failure",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.write",
				Name:        "Write File",
				Description: "Create or overwrite a file with text content",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
					{Name: "content", Type: "string", Description: "Text to write", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "filesystem.delete",
				Name:        "Delete Path",
				Description: "Delete a file or a directory recursively",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File or directory path", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a filesystem command
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "filesystem.list":
		return p.list(ctx, params)
	case "filesystem.read":
		return p.read(ctx, params, p.legacy)
	case "filesystem.read_strict":
		return p.read(ctx, params, false)
	case "filesystem.write":
		return p.write(ctx, params)
	case "filesystem.delete":
		return p.delete(ctx, params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) list(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := StringParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}

	entries, err := p.ops.List(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return FailureKind(NotFound, fmt.Sprintf("Path does not exist: %q", path))
		}
		if p.legacy && errors.Is(err, ErrIOFailure) {
			p.logger.Warn("Listing failed, returning empty result", zap.String("path", path), zap.Error(err))
			entries = []FileEntry{}
		} else {
			return FailureFrom(err)
		}
	}

	data := map[string]interface{}{
		"path":    path,
		"entries": entries,
		"count":   len(entries),
	}
	if p.legacy {
		// open_folder callers parse a JSON string
		encoded, err := sonic.MarshalString(entries)
		if err != nil {
			return FailureKind(IOFailure, fmt.Sprintf("encode listing: %v", err))
		}
		data["json"] = encoded
	}
	return Success(data)
}

func (p *Provider) read(ctx context.Context, params map[string]interface{}, legacy bool) (*types.Result, error) {
	path, ok := StringParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}

	content, err := p.ops.Read(ctx, path)
	if err != nil {
		if !legacy {
			return FailureFrom(err)
		}
		p.logger.Warn("Failed to read file", zap.String("path", path), zap.Error(err))
		content = ""
	}

	return Success(map[string]interface{}{
		"path":    path,
		"content": content,
		"size":    len(content),
	})
}

func (p *Provider) write(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := StringParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return Failure("content parameter required")
	}

	if err := p.ops.Write(ctx, path, content); err != nil {
		if !p.legacy {
			return FailureFrom(err)
		}
		p.logger.Warn("Failed to write file", zap.String("path", path), zap.Error(err))
		return Success(map[string]interface{}{"path": path, "status": StatusError})
	}

	return Success(map[string]interface{}{
		"path":   path,
		"status": StatusOK,
		"size":   len(content),
	})
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := StringParam(params, "path")
	if !ok {
		return Failure("path parameter required")
	}

	if err := p.ops.Delete(ctx, path); err != nil {
		if errors.Is(err, ErrNotFound) {
			return FailureKind(NotFound, "Path does not exist")
		}
		return FailureFrom(err)
	}

	return Success(map[string]interface{}{"deleted": true, "path": path})
}
