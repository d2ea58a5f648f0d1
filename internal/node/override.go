package node

import (
	"fmt"
	"strings"
)

// MatchKind enumerates the matcher categories an override can target.
// Matching compares explicit tags by value, never by runtime introspection
// of an opaque element object.
type MatchKind int

const (
	// MatchText matches primitive Text nodes.
	MatchText MatchKind = iota
	// MatchNumber matches primitive Number nodes.
	MatchNumber
	// MatchElement matches Element nodes with the given type name.
	MatchElement
)

// Match is one entry of an override's match set.
type Match struct {
	Kind MatchKind

	// Element is the element type name; meaningful only for MatchElement.
	Element string
}

// MatchTextNode returns a matcher for Text nodes.
func MatchTextNode() Match { return Match{Kind: MatchText} }

// MatchNumberNode returns a matcher for Number nodes.
func MatchNumberNode() Match { return Match{Kind: MatchNumber} }

// MatchElementNode returns a matcher for elements of the given type.
func MatchElementNode(elementType string) Match {
	return Match{Kind: MatchElement, Element: elementType}
}

// Matches reports whether the node satisfies this matcher.
func (m Match) Matches(r Renderable) bool {
	switch m.Kind {
	case MatchText:
		_, ok := r.(Text)
		return ok
	case MatchNumber:
		_, ok := r.(Number)
		return ok
	case MatchElement:
		el, ok := r.(*Element)
		return ok && el.Type == m.Element
	default:
		return false
	}
}

func (m Match) String() string {
	switch m.Kind {
	case MatchText:
		return "text"
	case MatchNumber:
		return "number"
	case MatchElement:
		return "element:" + m.Element
	default:
		return "unknown"
	}
}

// ParseMatch parses a matcher descriptor: "text", "number", or
// "element:<type>". The inverse of Match.String.
func ParseMatch(s string) (Match, error) {
	switch {
	case s == "text":
		return MatchTextNode(), nil
	case s == "number":
		return MatchNumberNode(), nil
	case strings.HasPrefix(s, "element:"):
		elementType := strings.TrimPrefix(s, "element:")
		if elementType == "" {
			return Match{}, fmt.Errorf("matcher %q: element type is required", s)
		}
		return MatchElementNode(elementType), nil
	default:
		return Match{}, fmt.Errorf("unknown matcher %q: must be text, number, or element:<type>", s)
	}
}

// Enforcement controls mismatch behavior of an override.
type Enforcement int

const (
	// Permissive passes a non-matching node through untouched.
	Permissive Enforcement = iota
	// Strict fails the render pass on a non-matching node.
	Strict
)

func (e Enforcement) String() string {
	if e == Strict {
		return "strict"
	}
	return "permissive"
}

// PropTransform maps an old prop value to a new one. The old value is nil
// when the prop is absent on the matched node. Transforms must be pure.
type PropTransform func(old Value) Value

// NodeTransform replaces a matched node wholesale. The input must not be
// mutated; return a fresh node.
type NodeTransform func(Renderable) Renderable

// OverrideSpec is one transformation unit of an override chain.
type OverrideSpec struct {
	// Allowed is the match set an input node must satisfy.
	// An empty set matches every node.
	Allowed []Match

	// Enforce selects strict or permissive mismatch handling.
	Enforce Enforcement

	// Props maps prop names to transforms, applied only on match and only
	// to elements. Node, when set, takes precedence and Props is ignored.
	Props map[string]PropTransform

	// Node replaces the whole node on match.
	Node NodeTransform

	// Fallback is wrapped default content, used only when the bucket
	// received no caller content. It may nest further override markers.
	Fallback []Child
}

// MatchSetString renders the allowed set for mismatch errors.
func (s OverrideSpec) MatchSetString() string {
	if len(s.Allowed) == 0 {
		return "any"
	}
	parts := make([]string, len(s.Allowed))
	for i, m := range s.Allowed {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

// Forward is the caller side of a template-as-slot binding: the caller
// forwards its own slot's content into a target's slot while the target
// keeps its independent fallback and overrides.
type Forward struct {
	// CallerProps are props the caller attaches; they win over the
	// callee's defaults on merge.
	CallerProps Props

	// Content is the caller's own bucket content for the forwarded slot.
	Content []Child

	// CallerFallback is the caller's declared fallback, possibly wrapped
	// in override markers.
	CallerFallback []Child

	// Chain holds override specs the caller attaches ahead of any markers
	// nested inside Content or CallerFallback.
	Chain []OverrideSpec
}
