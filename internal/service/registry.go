package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AIOP/backend/internal/shared/types"
)

// Registry manages command providers and legacy command aliases
type Registry struct {
	services sync.Map
	mu       sync.RWMutex
	aliases  map[string]Alias
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error)
}

// Alias maps a legacy command name onto a registered tool
type Alias struct {
	// Command is the tool ID the alias resolves to
	Command string
	// Params renames legacy argument names to tool parameter names
	Params map[string]string
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{aliases: make(map[string]Alias)}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	if strings.Contains(def.ID, ".") {
		return fmt.Errorf("service ID cannot contain '.': %s", def.ID)
	}

	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// Alias registers a legacy command name
func (r *Registry) Alias(name string, alias Alias) error {
	if name == "" || alias.Command == "" {
		return fmt.Errorf("alias and command cannot be empty")
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("alias cannot contain '.': %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[name] = alias
	return nil
}

// Aliases returns legacy command names mapped to their tool IDs
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.aliases))
	for name, alias := range r.aliases {
		out[name] = alias.Command
	}
	return out
}

// List returns all registered services sorted by ID
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		provider := value.(Provider)
		def := provider.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Resolve maps a command or legacy alias to a tool ID and normalised params.
// Arguments nested under "args" are lifted to the top level.
func (r *Registry) Resolve(command string, params map[string]interface{}) (string, map[string]interface{}) {
	normalized := make(map[string]interface{}, len(params))
	for k, v := range params {
		normalized[k] = v
	}
	if nested, ok := normalized["args"].(map[string]interface{}); ok {
		delete(normalized, "args")
		for k, v := range nested {
			if _, exists := normalized[k]; !exists {
				normalized[k] = v
			}
		}
	}

	r.mu.RLock()
	alias, ok := r.aliases[command]
	r.mu.RUnlock()
	if !ok {
		return command, normalized
	}

	for from, to := range alias.Params {
		if v, exists := normalized[from]; exists {
			if _, taken := normalized[to]; !taken {
				normalized[to] = v
			}
			delete(normalized, from)
		}
	}
	return alias.Command, normalized
}

// Execute runs a tool by ID or legacy alias
func (r *Registry) Execute(ctx context.Context, command string, params map[string]interface{}) (*types.Result, error) {
	toolID, params := r.Resolve(command, params)

	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 {
		return &types.Result{
			Success: false,
			Error:   stringPtr(fmt.Sprintf("unknown command: %s", command)),
		}, fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	serviceID := parts[0]
	provider, ok := r.Get(serviceID)
	if !ok {
		return &types.Result{
			Success: false,
			Error:   stringPtr(fmt.Sprintf("service not found: %s", serviceID)),
		}, fmt.Errorf("service not found: %s", serviceID)
	}

	return provider.Execute(ctx, toolID, params)
}

// Known reports whether command resolves to a tool defined by a registered service
func (r *Registry) Known(command string) bool {
	toolID, _ := r.Resolve(command, nil)
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok {
		return false
	}
	provider, ok := r.Get(serviceID)
	if !ok {
		return false
	}
	for _, tool := range provider.Definition().Tools {
		if tool.ID == toolID {
			return true
		}
	}
	return false
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		provider := value.(Provider)
		def := provider.Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	r.mu.RLock()
	aliases := len(r.aliases)
	r.mu.RUnlock()

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"total_aliases":  aliases,
		"categories":     categories,
	}
}

func stringPtr(s string) *string {
	return &s
}
