package registry

import (
	"log/slog"
	"sync"
)

// Registry is a concurrent map from tool name to Tool.
//
// Registration under an existing name atomically replaces the prior entry.
// Reads never observe a partially registered tool, and tools may be added
// or removed while calls are in flight.
type Registry struct {
	log *slog.Logger

	mu    sync.RWMutex
	tools map[string]Tool
}

// New creates an empty registry.
func New(log *slog.Logger) *Registry {
	return &Registry{
		log:   log.With("component", "registry"),
		tools: make(map[string]Tool, 8),
	}
}

// Register adds a tool, replacing any prior tool with the same name.
func (r *Registry) Register(tool Tool) {
	if tool == nil || tool.Name() == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[tool.Name()] = tool

	r.log.Debug("Registered tool", "tool", tool.Name())
}

// Unregister removes a tool if present; no-op otherwise.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		delete(r.tools, name)
		r.log.Debug("Unregistered tool", "tool", name)
	}
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]

	return tool, ok
}

// List returns a snapshot of all registered tools. Order is not stable
// across calls.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}

	return result
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}
