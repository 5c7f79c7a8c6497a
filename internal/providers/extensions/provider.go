package extensions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

// Provider exposes the Manager as registry commands
type Provider struct {
	manager *Manager
	logger  *zap.Logger
}

// NewProvider creates an extensions command provider
func NewProvider(manager *Manager, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{manager: manager, logger: logger}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "extensions",
		Name:        "Extensions Service",
		Description: "Install, list and remove extension bundles",
		Category:    types.CategoryExtensions,
		Capabilities: []string{
			"install",
			"install_archive",
			"install_url",
			"list",
			"remove",
			"entry",
		},
		Tools: []types.Tool{
			{
				ID:          "extensions.install",
				Name:        "Install Extension",
				Description: "Copy a bundle folder into the extensions folder",
				Parameters: []types.Parameter{
					{Name: "directory_path", Type: "string", Description: "Bundle folder", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "extensions.install_archive",
				Name:        "Install Extension Archive",
				Description: "Extract a .zip, .tar, .tar.gz or .tar.zst bundle into the extensions folder",
				Parameters: []types.Parameter{
					{Name: "archive_path", Type: "string", Description: "Archive file", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "extensions.install_url",
				Name:        "Install Extension From URL",
				Description: "Download an archive over http(s) and install it like install_archive",
				Parameters: []types.Parameter{
					{Name: "url", Type: "string", Description: "Archive URL", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "extensions.remove",
				Name:        "Remove Extension",
				Description: "Delete an installed extension folder",
				Parameters: []types.Parameter{
					{Name: "directory_name", Type: "string", Description: "Extension folder name", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          "extensions.list",
				Name:        "List Extensions",
				Description: "List installed extensions with their manifests",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "extensions.entry",
				Name:        "Load Extension Entry",
				Description: "Read the index.html page of an extension",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Extension folder name", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs an extensions command
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "extensions.install":
		return p.install(ctx, params)
	case "extensions.install_archive":
		return p.installArchive(ctx, params)
	case "extensions.install_url":
		return p.installURL(ctx, params)
	case "extensions.remove":
		return p.remove(ctx, params)
	case "extensions.list":
		return p.list(ctx)
	case "extensions.entry":
		return p.entry(ctx, params)
	default:
		return filesystem.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) install(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	source, ok := filesystem.StringParam(params, "directory_path")
	if !ok {
		return filesystem.Failure("directory_path parameter required")
	}

	result, err := p.manager.Install(ctx, source)
	if err != nil {
		return filesystem.FailureFrom(err)
	}
	return installed(result)
}

func (p *Provider) installArchive(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	archive, ok := filesystem.StringParam(params, "archive_path")
	if !ok {
		return filesystem.Failure("archive_path parameter required")
	}

	result, err := p.manager.InstallArchive(ctx, archive)
	if err != nil {
		return filesystem.FailureFrom(err)
	}
	return installed(result)
}

func (p *Provider) installURL(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	rawURL, ok := filesystem.StringParam(params, "url")
	if !ok {
		return filesystem.Failure("url parameter required")
	}

	result, err := p.manager.InstallURL(ctx, rawURL)
	if err != nil {
		return filesystem.FailureFrom(err)
	}
	return installed(result)
}

func installed(result *InstallResult) (*types.Result, error) {
	return filesystem.Success(map[string]interface{}{
		"message":     fmt.Sprintf("Successfully copied extension to %q", result.Destination),
		"destination": result.Destination,
		"report":      result.Report,
		"bundle":      result.Bundle,
	})
}

func (p *Provider) remove(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	name, ok := filesystem.StringParam(params, "directory_name")
	if !ok {
		return filesystem.Failure("directory_name parameter required")
	}

	if err := p.manager.Remove(ctx, name); err != nil {
		switch {
		case errors.Is(err, filesystem.ErrNotFound):
			return filesystem.FailureKind(filesystem.NotFound, fmt.Sprintf("Extension folder '%s' does not exist.", name))
		case errors.Is(err, filesystem.ErrInvalidArgument):
			return filesystem.FailureFrom(err)
		default:
			p.logger.Error("Failed to remove extension", zap.String("name", name), zap.Error(err))
			return filesystem.FailureKind(filesystem.KindOf(err), fmt.Sprintf("Failed to remove extension folder '%s': %v", name, err))
		}
	}

	return filesystem.Success(map[string]interface{}{
		"message": fmt.Sprintf("Successfully removed extension folder '%s'", name),
		"name":    name,
	})
}

func (p *Provider) list(ctx context.Context) (*types.Result, error) {
	extensions, err := p.manager.List(ctx)
	if err != nil {
		return filesystem.FailureFrom(err)
	}
	return filesystem.Success(map[string]interface{}{
		"root":       p.manager.Root(),
		"extensions": extensions,
		"count":      len(extensions),
	})
}

func (p *Provider) entry(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	name, ok := filesystem.StringParam(params, "name")
	if !ok {
		return filesystem.Failure("name parameter required")
	}

	page, err := p.manager.Entry(ctx, name)
	if err != nil {
		return filesystem.FailureFrom(err)
	}
	return filesystem.Success(map[string]interface{}{
		"folder":    page.Folder,
		"path":      page.Path,
		"title":     page.Title,
		"html":      page.HTML,
		"sanitized": page.Sanitized,
		"assets":    page.Assets,
	})
}
