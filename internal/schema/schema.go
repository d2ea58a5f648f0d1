// Package schema loads component definitions from CUE files.
//
// A definition file declares one component and its slot surface:
//
//	component: Button: {
//		slots: {
//			leftIcon: {}
//			default: {}
//			rightIcon: {
//				allowed: ["element:icon"]
//			}
//		}
//	}
//
// Slot declaration order is preserved. The optional per-slot "allowed"
// list constrains node kinds using matcher descriptors ("text", "number",
// "element:<type>"); it is a validation surface for tooling, not a runtime
// override chain. CUE is the construction-time analog of the compile-time
// type checking this engine deliberately leaves to its host language.
package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/resolve"
)

// LoadDefinition reads a CUE file and compiles its component definition.
func LoadDefinition(path string) (*resolve.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return CompileDefinition(v)
}

// CompileDefinition parses a CUE value into a Definition.
// The value must hold exactly one component under the "component" struct.
func CompileDefinition(v cue.Value) (*resolve.Definition, error) {
	componentVal := v.LookupPath(cue.ParsePath("component"))
	if !componentVal.Exists() {
		return nil, &CompileError{
			Field:   "component",
			Message: "component declaration is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := componentVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var def *resolve.Definition
	for iter.Next() {
		if def != nil {
			return nil, &CompileError{
				Field:   "component",
				Message: "exactly one component per definition file",
				Pos:     iter.Value().Pos(),
			}
		}
		def, err = compileComponent(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
	}
	if def == nil {
		return nil, &CompileError{
			Field:   "component",
			Message: "component declaration is empty",
			Pos:     componentVal.Pos(),
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func compileComponent(name string, v cue.Value) (*resolve.Definition, error) {
	def := &resolve.Definition{Component: name}

	slotsVal := v.LookupPath(cue.ParsePath("slots"))
	if !slotsVal.Exists() {
		return nil, &CompileError{
			Field:   "slots",
			Message: "slots struct is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := slotsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		slotName := iter.Label()
		def.Slots = append(def.Slots, slotName)

		allowed, err := compileAllowed(slotName, iter.Value())
		if err != nil {
			return nil, err
		}
		if len(allowed) > 0 {
			if def.Allowed == nil {
				def.Allowed = make(map[string][]node.Match)
			}
			def.Allowed[slotName] = allowed
		}
	}

	return def, nil
}

func compileAllowed(slotName string, v cue.Value) ([]node.Match, error) {
	allowedVal := v.LookupPath(cue.ParsePath("allowed"))
	if !allowedVal.Exists() {
		return nil, nil // allowed is optional
	}

	listIter, err := allowedVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var matches []node.Match
	for listIter.Next() {
		descriptor, err := listIter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		match, err := node.ParseMatch(descriptor)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("slots.%s.allowed", slotName),
				Message: err.Error(),
				Pos:     listIter.Value().Pos(),
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// CompileError represents a definition compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
