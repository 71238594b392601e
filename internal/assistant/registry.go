// Package assistant runs the chat loop between the user, the language model
// and the local finance tools.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"finassist/internal/llm"
)

// Invocation is a single tool call as seen by a handler. UserID always comes
// from the request, never from the model.
type Invocation struct {
	UserID string
	Args   map[string]any
}

// Handler executes a tool and returns the payload sent back to the model.
type Handler func(ctx context.Context, inv Invocation) (map[string]any, error)

// Tool pairs a schema with its local implementation.
type Tool struct {
	Spec    llm.ToolSpec
	Handler Handler
}

// Registry is the fixed, ordered set of tools offered to the model.
type Registry struct {
	tools  []Tool
	byName map[string]int
}

// NewRegistry builds a registry. Tool names must be unique and non-empty.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:  make([]Tool, 0, len(tools)),
		byName: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		name := t.Spec.Name
		if name == "" || t.Handler == nil {
			return nil, fmt.Errorf("tool %q: name and handler are required", name)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", name)
		}
		r.byName[name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Specs returns the tool schemas in registration order.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, len(r.tools))
	for i, t := range r.tools {
		specs[i] = t.Spec
	}
	return specs
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// MissingRequired lists required parameters of spec that are absent, null or
// blank in args, in declaration order.
func MissingRequired(spec llm.ToolSpec, args map[string]any) []string {
	var missing []string
	for _, name := range spec.RequiredParams() {
		v, ok := args[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
