package harness

import (
	"fmt"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// buildChildren converts declarative node specs into the engine's child
// list, preserving declaration order.
func buildChildren(specs []NodeSpec) ([]node.Child, error) {
	children := make([]node.Child, 0, len(specs))
	for i, spec := range specs {
		child, err := buildChild(spec)
		if err != nil {
			return nil, fmt.Errorf("children[%d]: %w", i, err)
		}
		children = append(children, child)
	}
	return children, nil
}

func buildChild(spec NodeSpec) (node.Child, error) {
	if err := checkOneVariant(spec); err != nil {
		return node.Child{}, err
	}

	switch {
	case spec.Override != nil:
		overrideSpec, err := buildOverride(spec.Override)
		if err != nil {
			return node.Child{}, err
		}
		child := node.NewOverride(spec.Slot, overrideSpec)
		child.Identity = spec.Identity
		return child, nil

	case spec.Forward != nil:
		forward, err := buildForward(spec.Forward)
		if err != nil {
			return node.Child{}, err
		}
		child := node.NewForward(spec.Slot, forward)
		child.Identity = spec.Identity
		return child, nil

	case spec.Func != nil:
		elementType := spec.Func.Type
		child := node.NewFuncContent(spec.Slot, func(props node.Props) node.Renderable {
			return &node.Element{Type: elementType, Props: props.Clone()}
		})
		child.Identity = spec.Identity
		return child, nil

	default:
		renderable, err := buildRenderable(spec)
		if err != nil {
			return node.Child{}, err
		}
		child := node.NewContent(spec.Slot, renderable)
		child.Identity = spec.Identity
		return child, nil
	}
}

func checkOneVariant(spec NodeSpec) error {
	set := 0
	for _, present := range []bool{
		spec.Text != nil,
		spec.Number != nil,
		spec.Element != nil,
		spec.Func != nil,
		spec.Override != nil,
		spec.Forward != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of text, number, element, func, override, forward is required")
	}
	return nil
}

// buildRenderable converts a content-only spec (text, number, element).
func buildRenderable(spec NodeSpec) (node.Renderable, error) {
	switch {
	case spec.Text != nil:
		return node.Text(*spec.Text), nil
	case spec.Number != nil:
		return node.Number(*spec.Number), nil
	case spec.Element != nil:
		return buildElement(spec.Element)
	default:
		return nil, fmt.Errorf("expected a renderable node (text, number, or element)")
	}
}

func buildElement(spec *ElementSpec) (node.Renderable, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("element: type is required")
	}
	props, err := node.PropsFromAny(spec.Props)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", spec.Type, err)
	}

	el := &node.Element{Type: spec.Type, Identity: spec.Identity, Props: props}
	for i, childSpec := range spec.Children {
		child, err := buildRenderable(childSpec)
		if err != nil {
			return nil, fmt.Errorf("element %q children[%d]: %w", spec.Type, i, err)
		}
		el.Children = append(el.Children, child)
	}
	return el, nil
}

func buildOverride(spec *OverrideSpec) (node.OverrideSpec, error) {
	out := node.OverrideSpec{}

	for _, descriptor := range spec.Allowed {
		match, err := node.ParseMatch(descriptor)
		if err != nil {
			return node.OverrideSpec{}, fmt.Errorf("override: %w", err)
		}
		out.Allowed = append(out.Allowed, match)
	}

	switch spec.Enforce {
	case "", "permissive":
		out.Enforce = node.Permissive
	case "strict":
		out.Enforce = node.Strict
	default:
		return node.OverrideSpec{}, fmt.Errorf("override: enforce must be strict or permissive, got %q", spec.Enforce)
	}

	if spec.Replace != nil && len(spec.Props) > 0 {
		return node.OverrideSpec{}, fmt.Errorf("override: replace and props are mutually exclusive")
	}

	if spec.Replace != nil {
		replacement, err := buildRenderable(*spec.Replace)
		if err != nil {
			return node.OverrideSpec{}, fmt.Errorf("override replace: %w", err)
		}
		out.Node = func(node.Renderable) node.Renderable {
			return node.CloneRenderable(replacement)
		}
	}

	if len(spec.Props) > 0 {
		out.Props = make(map[string]node.PropTransform, len(spec.Props))
		for name, transformSpec := range spec.Props {
			transform, err := buildPropTransform(transformSpec)
			if err != nil {
				return node.OverrideSpec{}, fmt.Errorf("override props[%q]: %w", name, err)
			}
			out.Props[name] = transform
		}
	}

	if len(spec.Fallback) > 0 {
		fallback, err := buildChildren(spec.Fallback)
		if err != nil {
			return node.OverrideSpec{}, fmt.Errorf("override fallback: %w", err)
		}
		out.Fallback = fallback
	}

	return out, nil
}

func buildPropTransform(spec PropTransformSpec) (node.PropTransform, error) {
	set := 0
	if spec.Set != nil {
		set++
	}
	if spec.Append != nil {
		set++
	}
	if spec.Drop {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of set, append, drop is required")
	}

	switch {
	case spec.Set != nil:
		value, err := node.ValueFromAny(spec.Set)
		if err != nil {
			return nil, fmt.Errorf("set: %w", err)
		}
		return func(node.Value) node.Value { return value }, nil

	case spec.Append != nil:
		suffix := *spec.Append
		return func(old node.Value) node.Value {
			if s, ok := old.(node.Str); ok {
				return s + node.Str(suffix)
			}
			// Absent (or non-string) reads as empty.
			return node.Str(suffix)
		}, nil

	default: // Drop
		return func(node.Value) node.Value { return nil }, nil
	}
}

func buildForward(spec *ForwardSpec) (node.Forward, error) {
	props, err := node.PropsFromAny(spec.Props)
	if err != nil {
		return node.Forward{}, fmt.Errorf("forward props: %w", err)
	}

	content, err := buildChildren(spec.Content)
	if err != nil {
		return node.Forward{}, fmt.Errorf("forward content: %w", err)
	}
	fallback, err := buildChildren(spec.Fallback)
	if err != nil {
		return node.Forward{}, fmt.Errorf("forward fallback: %w", err)
	}

	return node.Forward{
		CallerProps:    props,
		Content:        content,
		CallerFallback: fallback,
	}, nil
}
