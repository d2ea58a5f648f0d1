package node

import (
	"fmt"
	"strings"
)

// DefaultSlot is the reserved slot name for unannotated children.
const DefaultSlot = "default"

// Renderable is a sealed interface for renderable output.
// Only Text, Number, and Element implement it.
type Renderable interface {
	renderable() // Sealed - only these types implement it
}

// Text is a primitive string node.
type Text string

func (Text) renderable() {}

// Number is a primitive integer node. Always int64, never float64.
type Number int64

func (Number) renderable() {}

// Element is a structured node with a type name, props, and children.
type Element struct {
	Type     string
	Identity string // caller-supplied stable key, optional
	Props    Props
	Children []Renderable
}

func (*Element) renderable() {}

// Clone returns an independent copy of the element.
// Props are deep-copied; children are copied recursively so a transform
// output never aliases its input.
func (e *Element) Clone() *Element {
	out := &Element{
		Type:     e.Type,
		Identity: e.Identity,
		Props:    e.Props.Clone(),
	}
	if e.Children != nil {
		out.Children = make([]Renderable, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = CloneRenderable(c)
		}
	}
	return out
}

// CloneRenderable returns an independent copy of any renderable node.
// Text and Number are value types and returned as-is.
func CloneRenderable(r Renderable) Renderable {
	if el, ok := r.(*Element); ok {
		return el.Clone()
	}
	return r
}

// Describe returns a short descriptor of a node's runtime type for error
// messages, e.g. `element:button`, `text`, `number`.
func Describe(r Renderable) string {
	switch n := r.(type) {
	case Text:
		return "text"
	case Number:
		return "number"
	case *Element:
		return "element:" + n.Type
	case nil:
		return "absent"
	default:
		return fmt.Sprintf("unknown(%T)", r)
	}
}

// Payload is a sealed interface for a child's content.
// A payload is either a concrete renderable value or a function of pass-up
// props - never both, and never detected by duck typing.
type Payload interface {
	payload() // Sealed - only ValuePayload and FuncPayload implement it
}

// ValuePayload wraps a concrete renderable node.
type ValuePayload struct {
	Node Renderable
}

func (ValuePayload) payload() {}

// FuncPayload wraps a pass-up-prop consumer. The slot accessor invokes Fn
// with the component's runtime props to obtain the realized node.
type FuncPayload struct {
	Fn func(Props) Renderable
}

func (FuncPayload) payload() {}

// Kind classifies a top-level child.
type Kind int

const (
	// KindOrdinary is plain slot content.
	KindOrdinary Kind = iota
	// KindOverride is a structural override marker; never rendered itself.
	KindOverride
	// KindForward is a template-as-slot forwarding marker.
	KindForward
)

func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindOverride:
		return "override"
	case KindForward:
		return "forward"
	default:
		return "unknown"
	}
}

// ChildData is a sealed interface for kind-specific child payloads.
// Only Content, OverrideMarker, and ForwardMarker implement it.
type ChildData interface {
	childData() // marker method restricting implementations to this package
}

// Content is ordinary slot content.
type Content struct {
	Payload Payload
}

func (Content) childData() {}

// OverrideMarker carries one override specification.
type OverrideMarker struct {
	Spec OverrideSpec
}

func (OverrideMarker) childData() {}

// ForwardMarker carries a template-as-slot forwarding binding. The caller
// side lives here; the callee side (its default props, fallback, and
// override chain) is supplied by the callee's accessor call.
type ForwardMarker struct {
	Forward Forward
}

func (ForwardMarker) childData() {}

// Child is one top-level child passed to a component.
type Child struct {
	// Identity is a caller-supplied stable key, optional.
	Identity string

	// Slot is the explicit slot annotation. Empty routes to DefaultSlot.
	Slot string

	// Data holds the kind-specific payload.
	Data ChildData
}

// Kind reports the child's classification from its data variant.
func (c Child) Kind() Kind {
	switch c.Data.(type) {
	case OverrideMarker:
		return KindOverride
	case ForwardMarker:
		return KindForward
	default:
		return KindOrdinary
	}
}

// SlotName returns the normalized target bucket name. A missing or
// whitespace-only annotation is inert and routes to the default bucket.
func (c Child) SlotName() string {
	name := strings.TrimSpace(c.Slot)
	if name == "" {
		return DefaultSlot
	}
	return name
}

// NewContent builds an ordinary child holding a concrete node.
func NewContent(slot string, n Renderable) Child {
	return Child{Slot: slot, Data: Content{Payload: ValuePayload{Node: n}}}
}

// NewFuncContent builds an ordinary child holding a pass-up-prop consumer.
func NewFuncContent(slot string, fn func(Props) Renderable) Child {
	return Child{Slot: slot, Data: Content{Payload: FuncPayload{Fn: fn}}}
}

// NewOverride builds an override marker child for a slot.
func NewOverride(slot string, spec OverrideSpec) Child {
	return Child{Slot: slot, Data: OverrideMarker{Spec: spec}}
}

// NewForward builds a template-as-slot forwarding child for a slot.
func NewForward(slot string, fw Forward) Child {
	return Child{Slot: slot, Data: ForwardMarker{Forward: fw}}
}
