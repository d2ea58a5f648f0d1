package resolve

import (
	"fmt"
	"sort"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// applyChain runs the override chain over the active content,
// deterministically: specs apply in written order, per node, with each
// spec's output feeding the next spec's input. A permissive mismatch is an
// identity step; a strict mismatch aborts the pass.
func (r *Resolution) applyChain(slot string, chain []node.OverrideSpec, content []node.Renderable) ([]node.Renderable, error) {
	if len(chain) == 0 {
		return content, nil
	}

	out := make([]node.Renderable, len(content))
	for i, n := range content {
		transformed, err := r.applyChainToNode(slot, chain, n)
		if err != nil {
			return nil, err
		}
		out[i] = transformed
	}
	return out, nil
}

func (r *Resolution) applyChainToNode(slot string, chain []node.OverrideSpec, n node.Renderable) (node.Renderable, error) {
	current := n
	for i, spec := range chain {
		if !specMatches(spec, current) {
			if spec.Enforce == node.Strict {
				expected := make([]string, len(spec.Allowed))
				for j, m := range spec.Allowed {
					expected[j] = m.String()
				}
				return nil, NewMismatchError(r.def.Component, slot, expected, node.Describe(current))
			}
			// Permissive mismatch: identity, next spec sees the same node.
			continue
		}

		next, applied := applySpec(spec, current)
		if applied {
			r.record(Event{
				Kind:   EventOverrideApplied,
				Slot:   slot,
				Detail: fmt.Sprintf("spec=%d match=%s node=%s", i, spec.MatchSetString(), node.Describe(current)),
			})
		}
		current = next
	}
	return current, nil
}

// specMatches tests the match set against the node's runtime type.
// An empty set matches every node.
func specMatches(spec node.OverrideSpec, n node.Renderable) bool {
	if len(spec.Allowed) == 0 {
		return true
	}
	for _, m := range spec.Allowed {
		if m.Matches(n) {
			return true
		}
	}
	return false
}

// applySpec applies one matched spec to a node and reports whether it
// changed anything. Node replaces wholesale; otherwise prop transforms run
// in sorted prop-name order against a clone. Primitives carry no props, so
// prop transforms are a no-op on them.
func applySpec(spec node.OverrideSpec, n node.Renderable) (node.Renderable, bool) {
	if spec.Node != nil {
		return spec.Node(node.CloneRenderable(n)), true
	}

	if len(spec.Props) == 0 {
		return n, false
	}
	el, ok := n.(*node.Element)
	if !ok {
		return n, false
	}

	out := el.Clone()
	if out.Props == nil {
		out.Props = make(node.Props, len(spec.Props))
	}

	names := make([]string, 0, len(spec.Props))
	for name := range spec.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		transform := spec.Props[name]
		if transform == nil {
			continue
		}
		old := out.Props[name] // nil when absent, by contract
		if updated := transform(old); updated != nil {
			out.Props[name] = updated
		} else {
			delete(out.Props, name)
		}
	}
	return out, true
}
