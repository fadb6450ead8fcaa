// Package agent exposes core operations as named tools for a conversational
// dispatch loop. The loop itself (prompting, chat-completion transport) is an
// external collaborator; this package is only the registry it consumes.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Tool is a named operation invocable with a single positional string
// argument. The returned observation is serialized back into the
// conversational protocol by the caller.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, arg string) (string, error)
}

// Registry holds the available tools. It is constructed explicitly and
// injected; there is no process-wide registry.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry over the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Invoke dispatches a tool call by name.
func (r *Registry) Invoke(ctx context.Context, name, arg string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return tool.Invoke(ctx, arg)
}

// Tools returns the registered tools sorted by name.
func (r *Registry) Tools() []Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// marshalObservation renders a tool result as a JSON observation string.
func marshalObservation(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize observation: %w", err)
	}
	return string(data), nil
}
