// Package registry implements ToolRegistry, a declarative, immutable
// catalog of tool descriptors validated once at construction. The
// insertion-order slice alongside a lookup map preserves registration
// order for tools/list while validating eagerly rather than accepting
// whatever an AddTool call is given.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Descriptor is a ToolDescriptor: a unique, non-empty name,
// a non-empty description, and a JSON-Schema-shaped input contract.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Registry is an immutable-after-construction catalog of Descriptors.
type Registry struct {
	order []string
	byName map[string]Descriptor
}

// New validates descriptors and builds a Registry, or returns an
// aggregate error listing every offending tool. Order is
// preserved for List().
func New(descriptors []Descriptor) (*Registry, error) {
	var problems []string
	seen := make(map[string]bool, len(descriptors))

	for i, d := range descriptors {
		label := d.Name
		if label == "" {
			label = fmt.Sprintf("descriptor[%d]", i)
		}

		for _, msg := range validate(d) {
			problems = append(problems, fmt.Sprintf("%s: %s", label, msg))
		}

		if d.Name != "" {
			if seen[d.Name] {
				problems = append(problems, fmt.Sprintf("%s: duplicate tool name", d.Name))
			}
			seen[d.Name] = true
		}
	}

	if len(problems) > 0 {
		return nil, errors.New("invalid tool registry:\n" + strings.Join(problems, "\n"))
	}

	r := &Registry{
		order:  make([]string, 0, len(descriptors)),
		byName: make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		r.order = append(r.order, d.Name)
		r.byName[d.Name] = d
	}
	return r, nil
}

// validate returns the human-readable problems with a single descriptor.
func validate(d Descriptor) []string {
	var problems []string

	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name must not be empty")
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "description must not be empty")
	}
	if d.InputSchema == nil {
		problems = append(problems, "inputSchema must not be null")
		return problems
	}
	if t, _ := d.InputSchema["type"].(string); t != "object" {
		problems = append(problems, `inputSchema.type must be "object"`)
	}
	if props, ok := d.InputSchema["properties"]; ok {
		if _, isMap := props.(map[string]any); !isMap {
			problems = append(problems, "inputSchema.properties must be an object")
		}
	} else {
		problems = append(problems, "inputSchema.properties must be an object")
	}
	if req, ok := d.InputSchema["required"]; ok {
		if _, isSlice := req.([]any); !isSlice {
			problems = append(problems, "inputSchema.required must be an array")
		}
	} else {
		problems = append(problems, "inputSchema.required must be an array")
	}

	return problems
}

// List returns the descriptors in declaration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Get returns the descriptor for name, or ok == false if no such tool
// is registered.
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered tool names in declaration order, used
// for the tool list in discovery announcements.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
