// Package tools exposes browser control to an agent as named tools that take
// JSON arguments.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownTool is returned by Registry.Execute for unregistered names.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments wraps every argument validation failure.
	ErrInvalidArguments = errors.New("invalid parameters")
)

// Tool is a capability an agent can invoke by name.
type Tool interface {
	// Name is the identifier agents call the tool by (e.g. "click").
	Name() string

	// Description is shown to the agent alongside the schema.
	Description() string

	// Schema is the JSON schema of the tool's arguments object.
	Schema() map[string]interface{}

	// Execute runs the tool. Metadata is optional and carries structured
	// results such as screenshots that do not belong in the text output.
	Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error)
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// DecodeArgs unmarshals args into v. Empty input decodes as {}. Unknown
// fields are rejected so typos surface instead of being ignored.
func DecodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// Missing returns the validation error for a required argument.
func Missing(name string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidArguments, name)
}

// Registry holds tools by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns a registry containing ts.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register adds t, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Execute runs the tool called name.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, map[string]interface{}, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Execute(ctx, args)
}
