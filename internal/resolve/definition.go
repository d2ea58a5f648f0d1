package resolve

import (
	"fmt"
	"strings"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// Definition declares the slot surface of one component: the set of names a
// caller may target and an accessor may resolve. Accessors are built once
// per definition from this explicit list; there is no open-ended dynamic
// lookup, and an undeclared name is a construction-time error.
//
// Each definition is an independent, immutable binding scoped to the
// component it targets. No process-wide registry exists.
type Definition struct {
	// Component is the component name, used in errors and traces.
	Component string

	// Slots lists the declared slot names in declaration order.
	Slots []string

	// Allowed optionally constrains the node kinds a slot accepts. Keys
	// must be declared slot names. The constraint is a validation surface
	// consumed by tooling; the engine itself enforces only override
	// match sets.
	Allowed map[string][]node.Match
}

// Validate checks structural invariants of the definition.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Component) == "" {
		return NewDefinitionError(d.Component, "component name is required")
	}
	if len(d.Slots) == 0 {
		return NewDefinitionError(d.Component, "at least one slot is required")
	}
	seen := make(map[string]bool, len(d.Slots))
	for i, slot := range d.Slots {
		name := strings.TrimSpace(slot)
		if name == "" {
			return NewDefinitionError(d.Component, fmt.Sprintf("slot[%d]: name is required", i))
		}
		if seen[name] {
			return NewDefinitionError(d.Component, fmt.Sprintf("slot %q declared twice", name))
		}
		seen[name] = true
	}
	for slot := range d.Allowed {
		if !seen[slot] {
			return NewDefinitionError(d.Component, fmt.Sprintf("allowed-kinds constraint targets undeclared slot %q", slot))
		}
	}
	return nil
}

// Declared returns the declared slot-name set.
func (d *Definition) Declared() map[string]bool {
	declared := make(map[string]bool, len(d.Slots))
	for _, slot := range d.Slots {
		declared[strings.TrimSpace(slot)] = true
	}
	return declared
}
