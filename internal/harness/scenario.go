package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for one component.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Definition is the path to the component's CUE definition,
	// relative to the scenario file location.
	Definition string `yaml:"definition"`

	// Children is the component's raw top-level child list.
	Children []NodeSpec `yaml:"children,omitempty"`

	// Invoke lists the slot accessor calls the component body makes.
	Invoke []InvokeStep `yaml:"invoke"`

	// Assertions validate presence, advisories, and determinism.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// InvokeStep is one accessor call with optional expectations.
type InvokeStep struct {
	// Slot is the slot name to resolve.
	Slot string `yaml:"slot"`

	// Props are the runtime (pass-up) props for this slot occurrence.
	Props map[string]any `yaml:"props,omitempty"`

	// Fallback is the content the component body supplies for an empty
	// bucket; it may contain override markers wrapping the fallback.
	Fallback []NodeSpec `yaml:"fallback,omitempty"`

	// Expect validates the resolution outcome. Nil means "must succeed".
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of one accessor call.
type ExpectClause struct {
	// Output is the expected node list, compared canonically.
	Output []NodeSpec `yaml:"output,omitempty"`

	// Absent requires the slot to render nothing.
	Absent bool `yaml:"absent,omitempty"`

	// Error is the expected resolution error code (e.g. "MISMATCH").
	Error string `yaml:"error,omitempty"`
}

// NodeSpec is the declarative form of a child or renderable node.
// Exactly one of Text, Number, Element, Func, Override, or Forward is set.
type NodeSpec struct {
	// Slot is the explicit annotation; meaningful only for top-level
	// children. Empty routes to the default bucket.
	Slot string `yaml:"slot,omitempty"`

	// Identity is the caller-supplied stable key, optional.
	Identity string `yaml:"identity,omitempty"`

	Text     *string       `yaml:"text,omitempty"`
	Number   *int64        `yaml:"number,omitempty"`
	Element  *ElementSpec  `yaml:"element,omitempty"`
	Func     *FuncSpec     `yaml:"func,omitempty"`
	Override *OverrideSpec `yaml:"override,omitempty"`
	Forward  *ForwardSpec  `yaml:"forward,omitempty"`
}

// ElementSpec describes a structured element.
type ElementSpec struct {
	Type     string         `yaml:"type"`
	Identity string         `yaml:"identity,omitempty"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []NodeSpec     `yaml:"children,omitempty"`
}

// FuncSpec describes a pass-up-prop consumer: it realizes to an element of
// the given type whose props are exactly the runtime props it received.
// This keeps function payloads expressible in YAML while staying pure.
type FuncSpec struct {
	Type string `yaml:"type"`
}

// OverrideSpec is the declarative form of an override marker.
type OverrideSpec struct {
	// Allowed lists matcher descriptors: "text", "number", "element:<type>".
	// Empty matches every node.
	Allowed []string `yaml:"allowed,omitempty"`

	// Enforce is "strict" or "permissive" (default).
	Enforce string `yaml:"enforce,omitempty"`

	// Props maps prop names to declarative transforms.
	Props map[string]PropTransformSpec `yaml:"props,omitempty"`

	// Replace substitutes the whole node on match.
	Replace *NodeSpec `yaml:"replace,omitempty"`

	// Fallback is wrapped default content, used only when the bucket
	// received no caller content.
	Fallback []NodeSpec `yaml:"fallback,omitempty"`
}

// PropTransformSpec is a small pure-transform DSL:
// set replaces the value, append concatenates onto a string (absent reads
// as empty), drop removes the prop. Exactly one may be used.
type PropTransformSpec struct {
	Set    any     `yaml:"set,omitempty"`
	Append *string `yaml:"append,omitempty"`
	Drop   bool    `yaml:"drop,omitempty"`
}

// ForwardSpec is the declarative form of a template-as-slot binding.
type ForwardSpec struct {
	// Props are the caller-attached props; they win over callee defaults.
	Props map[string]any `yaml:"props,omitempty"`

	// Content is the caller's own bucket content for the forwarded slot.
	Content []NodeSpec `yaml:"content,omitempty"`

	// Fallback is the caller's declared fallback.
	Fallback []NodeSpec `yaml:"fallback,omitempty"`
}

// Assertion validates resolution results.
type Assertion struct {
	// Type: has_slot | advisory_count | advisory_contains | replay_deterministic
	Type string `yaml:"type"`

	// Slot is the slot name (has_slot, advisory_contains).
	Slot string `yaml:"slot,omitempty"`

	// Present is the expected presence (has_slot).
	Present bool `yaml:"present,omitempty"`

	// Count is the expected advisory total (advisory_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected advisory code (advisory_contains).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertHasSlot             = "has_slot"
	AssertAdvisoryCount       = "advisory_count"
	AssertAdvisoryContains    = "advisory_contains"
	AssertReplayDeterministic = "replay_deterministic"
)

// LoadScenario reads and parses a scenario YAML file. The definition path
// is resolved relative to the scenario file. Unknown fields are rejected
// to catch typos like "assertion:" vs "assertions:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Definition != "" && !filepath.IsAbs(scenario.Definition) {
		scenario.Definition = filepath.Join(filepath.Dir(path), scenario.Definition)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Definition == "" {
		return fmt.Errorf("definition is required")
	}
	if _, err := os.Stat(s.Definition); os.IsNotExist(err) {
		return fmt.Errorf("definition file not found: %s", s.Definition)
	}
	if len(s.Invoke) == 0 {
		return fmt.Errorf("invoke list is required and must be non-empty")
	}

	for i, step := range s.Invoke {
		if step.Slot == "" {
			return fmt.Errorf("invoke[%d]: slot is required", i)
		}
		if step.Expect != nil {
			if err := validateExpect(i, step.Expect); err != nil {
				return err
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(index int, e *ExpectClause) error {
	set := 0
	if len(e.Output) > 0 {
		set++
	}
	if e.Absent {
		set++
	}
	if e.Error != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("invoke[%d].expect: exactly one of output, absent, error is required", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertHasSlot:
		if a.Slot == "" {
			return fmt.Errorf("assertions[%d]: slot is required for has_slot", index)
		}
	case AssertAdvisoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for advisory_count", index)
		}
	case AssertAdvisoryContains:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for advisory_contains", index)
		}
	case AssertReplayDeterministic:
		// no fields
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
