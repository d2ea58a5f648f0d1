package resolve

import (
	"fmt"
	"strings"

	"github.com/dovetail-ui/dovetail/internal/classify"
	"github.com/dovetail-ui/dovetail/internal/node"
)

// Resolution is one render pass over a component's children. It owns the
// buckets produced by classification and exposes a lazily-evaluated
// accessor per declared slot name. All state is rebuilt per pass; a failed
// pass leaves nothing behind.
type Resolution struct {
	def        *Definition
	buckets    *classify.Buckets
	has        map[string]bool
	advisories []Advisory
	rec        Recorder
}

// Option configures a Resolution.
type Option func(*Resolution)

// WithRecorder attaches a trace recorder to the pass. The recorder observes
// events; it never influences output.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolution) {
		r.rec = rec
	}
}

// Accessor resolves one slot given optional fallback content and runtime
// props. Calling it is idempotent within a pass: identical arguments
// produce structurally identical output.
type Accessor func(fallback []node.Child, props node.Props) ([]node.Renderable, error)

// New classifies the children against the definition and returns a
// Resolution. The definition is validated first; an invalid definition is
// a construction-time error, not a render-time surprise.
func New(def *Definition, children []node.Child, opts ...Option) (*Resolution, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	r := &Resolution{def: def}
	for _, opt := range opts {
		opt(r)
	}

	r.buckets = classify.Classify(children)

	declared := def.Declared()
	r.has = make(map[string]bool, len(def.Slots))
	for _, slot := range def.Slots {
		name := strings.TrimSpace(slot)
		r.has[name] = hasContent(r.buckets.Get(name))
	}

	r.collectAdvisories(declared)

	r.record(Event{
		Kind:   EventClassify,
		Detail: fmt.Sprintf("buckets=%s", strings.Join(r.buckets.Names(), ",")),
	})

	return r, nil
}

// hasContent reports whether the caller provided content for a bucket.
// Override markers are instructions, not content: a bucket holding only
// markers still reads as absent. A forwarding binding counts as provided
// because the merge always yields content from one side or the other.
func hasContent(bucket classify.Bucket) bool {
	for _, child := range bucket {
		switch child.Data.(type) {
		case node.Content:
			return true
		case node.ForwardMarker:
			return true
		}
	}
	return false
}

func (r *Resolution) collectAdvisories(declared map[string]bool) {
	for _, orphan := range r.buckets.Orphans(declared) {
		r.advise(Advisory{
			Code:    AdvisoryOrphanedSlot,
			Slot:    orphan,
			Message: fmt.Sprintf("annotation %q matches no declared slot; its content is dropped and the fallback renders", orphan),
		})
	}

	// Repeated structural elements in one bucket need a stable key for the
	// host renderer; absence is reported but never blocks resolution.
	for _, slot := range r.def.Slots {
		name := strings.TrimSpace(slot)
		elements, missing := 0, 0
		for _, child := range r.buckets.Get(name) {
			content, ok := child.Data.(node.Content)
			if !ok {
				continue
			}
			payload, ok := content.Payload.(node.ValuePayload)
			if !ok {
				continue
			}
			el, ok := payload.Node.(*node.Element)
			if !ok {
				continue
			}
			elements++
			if child.Identity == "" && el.Identity == "" {
				missing++
			}
		}
		if elements >= 2 && missing > 0 {
			r.advise(Advisory{
				Code:    AdvisoryMissingIdentity,
				Slot:    name,
				Message: fmt.Sprintf("%d of %d repeated elements lack a stable identity", missing, elements),
			})
		}
	}
}

func (r *Resolution) advise(adv Advisory) {
	r.advisories = append(r.advisories, adv)
	r.record(Event{Kind: EventAdvisory, Slot: adv.Slot, Detail: string(adv.Code) + ": " + adv.Message})
}

func (r *Resolution) record(ev Event) {
	if r.rec != nil {
		r.rec.Record(ev)
	}
}

// HasSlot reports whether the named bucket received caller content.
// Computed once at construction from non-empty declared buckets.
func (r *Resolution) HasSlot(name string) bool {
	return r.has[name]
}

// Has returns the full read-only presence map for declared slots.
func (r *Resolution) Has() map[string]bool {
	out := make(map[string]bool, len(r.has))
	for k, v := range r.has {
		out[k] = v
	}
	return out
}

// Advisories returns non-fatal diagnostics collected so far, in the order
// they were detected.
func (r *Resolution) Advisories() []Advisory {
	out := make([]Advisory, len(r.advisories))
	copy(out, r.advisories)
	return out
}

// Slot returns the accessor for a declared slot name. Unknown names are an
// error here, at construction of the call, not a silently absent property.
func (r *Resolution) Slot(name string) (Accessor, error) {
	if _, declared := r.has[name]; !declared {
		return nil, NewUnknownSlotError(r.def.Component, name, r.def.Slots)
	}
	return func(fallback []node.Child, props node.Props) ([]node.Renderable, error) {
		return r.ResolveSlot(name, fallback, props)
	}, nil
}

// ResolveSlot resolves one slot occurrence to its final render output.
//
// The active content is the bucket's nodes in declaration order when the
// bucket is non-empty, otherwise the supplied fallback; function payloads
// are realized with the runtime props; the override chain then applies
// left-to-right. A forward marker resolves through the template-forward
// merger first and its result flows through the chain as ordinary content.
func (r *Resolution) ResolveSlot(name string, fallback []node.Child, props node.Props) ([]node.Renderable, error) {
	if _, declared := r.has[name]; !declared {
		err := NewUnknownSlotError(r.def.Component, name, r.def.Slots)
		r.record(Event{Kind: EventError, Slot: name, Detail: err.Error()})
		return nil, err
	}

	bucket := r.buckets.Get(name)

	forward, bucketParts, err := splitBucket(r.def.Component, name, bucket)
	if err != nil {
		r.record(Event{Kind: EventError, Slot: name, Detail: err.Error()})
		return nil, err
	}

	var out []node.Renderable
	if forward != nil {
		out, err = r.resolveForward(name, *forward, bucketParts.specs, fallback, props)
	} else {
		out, err = r.resolveOrdinary(name, bucketParts, fallback, props)
	}
	if err != nil {
		r.record(Event{Kind: EventError, Slot: name, Detail: err.Error()})
		return nil, err
	}

	r.record(Event{
		Kind:   EventSlotResolved,
		Slot:   name,
		Detail: fmt.Sprintf("nodes=%d", len(out)),
	})
	return out, nil
}

// resolveOrdinary handles the non-forwarded path.
//
// Provided path: the bucket's ordinary children are the active content and
// only the bucket's markers participate. Fallback path: caller-side wrapped
// fallback wins over the callee's direct fallback, which wins over the
// callee's wrapped fallback; bucket markers apply before fallback markers.
func (r *Resolution) resolveOrdinary(name string, bucketParts parts, fallback []node.Child, props node.Props) ([]node.Renderable, error) {
	if len(bucketParts.direct) > 0 {
		content, err := r.realize(name, bucketParts.direct, props, false)
		if err != nil {
			return nil, err
		}
		return r.applyChain(name, bucketParts.specs, content)
	}

	fbParts, err := flatten(r.def.Component, name, fallback)
	if err != nil {
		return nil, err
	}

	chain := append(append([]node.OverrideSpec{}, bucketParts.specs...), fbParts.specs...)

	var active []node.Child
	switch {
	case len(bucketParts.wrapped) > 0:
		active = bucketParts.wrapped
	case len(fbParts.direct) > 0:
		active = fbParts.direct
	default:
		active = fbParts.wrapped
	}
	if len(active) == 0 {
		// Empty bucket, no fallback: the slot renders nothing.
		return nil, nil
	}

	content, err := r.realize(name, active, props, false)
	if err != nil {
		return nil, err
	}
	return r.applyChain(name, chain, content)
}

// parts is the flattened view of a child list: override specs in
// declaration order (outermost first), ordinary content, and content found
// wrapped inside markers (active only on the fallback path).
type parts struct {
	specs   []node.OverrideSpec
	direct  []node.Child
	wrapped []node.Child
}

// splitBucket extracts an optional forward marker and flattens the rest.
// At most one forwarding binding may target a slot occurrence, and it may
// not share the bucket with ordinary content - the merge step could not
// decide which content wins.
func splitBucket(component, slot string, bucket classify.Bucket) (*node.Forward, parts, error) {
	var forward *node.Forward
	rest := make([]node.Child, 0, len(bucket))
	for _, child := range bucket {
		if marker, ok := child.Data.(node.ForwardMarker); ok {
			if forward != nil {
				return nil, parts{}, &ResolveError{
					Code:      ErrCodeInvalidForward,
					Message:   "at most one forwarding binding may target a slot",
					Component: component,
					Slot:      slot,
				}
			}
			fw := marker.Forward
			forward = &fw
			continue
		}
		rest = append(rest, child)
	}

	flat, err := flatten(component, slot, rest)
	if err != nil {
		return nil, parts{}, err
	}
	if forward != nil && len(flat.direct) > 0 {
		return nil, parts{}, &ResolveError{
			Code:      ErrCodeInvalidForward,
			Message:   "a forwarding binding cannot share a slot with ordinary content",
			Component: component,
			Slot:      slot,
		}
	}
	return forward, flat, nil
}

// flatten walks a child list once, collecting override specs
// outermost-first and separating direct content from marker-wrapped
// fallback content. Nested markers inside a wrapped fallback flatten into
// the same chain, preserving written order.
func flatten(component, slot string, children []node.Child) (parts, error) {
	var out parts
	for _, child := range children {
		switch data := child.Data.(type) {
		case node.Content:
			out.direct = append(out.direct, child)
		case node.OverrideMarker:
			out.specs = append(out.specs, data.Spec)
			if len(data.Spec.Fallback) > 0 {
				inner, err := flatten(component, slot, data.Spec.Fallback)
				if err != nil {
					return parts{}, err
				}
				out.specs = append(out.specs, inner.specs...)
				out.wrapped = append(out.wrapped, inner.direct...)
				out.wrapped = append(out.wrapped, inner.wrapped...)
			}
		case node.ForwardMarker:
			return parts{}, &ResolveError{
				Code:      ErrCodeInvalidForward,
				Message:   "forwarding bindings may appear only at the top level of a slot",
				Component: component,
				Slot:      slot,
			}
		default:
			return parts{}, NewDefinitionError(component, fmt.Sprintf("slot %q: unknown child data %T", slot, child.Data))
		}
	}
	return out, nil
}

// realize turns ordinary children into renderable nodes. Function payloads
// are invoked with the runtime props; value payloads pass through as-is
// with their props intact for downstream override matching. When
// rejectFuncs is set (template-as-slot caller content), a function payload
// is a configuration error at the binding site.
func (r *Resolution) realize(slot string, children []node.Child, props node.Props, rejectFuncs bool) ([]node.Renderable, error) {
	out := make([]node.Renderable, 0, len(children))
	for _, child := range children {
		content, ok := child.Data.(node.Content)
		if !ok {
			continue
		}
		switch payload := content.Payload.(type) {
		case node.ValuePayload:
			if payload.Node == nil {
				continue
			}
			out = append(out, payload.Node)
		case node.FuncPayload:
			if rejectFuncs {
				return nil, NewForwardError(r.def.Component, slot)
			}
			if payload.Fn == nil {
				continue
			}
			if realized := payload.Fn(props); realized != nil {
				out = append(out, realized)
			}
		default:
			return nil, NewDefinitionError(r.def.Component, fmt.Sprintf("slot %q: unknown payload %T", slot, content.Payload))
		}
	}
	return out, nil
}
