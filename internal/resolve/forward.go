package resolve

import (
	"fmt"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// resolveForward composes a caller's template-as-slot binding with the
// callee's own defaults and overrides, then hands the merged content
// through the override chain exactly as ordinary content would flow.
//
// Merge rules:
//   - Props are right-biased toward the caller: start from the callee's
//     defaults, overlay the caller's props, caller wins on collision.
//   - Content precedence: caller's own bucket, then caller fallback, then
//     callee fallback.
//   - Chain order: when content came from the caller side, the caller's
//     chain applies first and the callee's chain applies to the result;
//     when content is the callee's own fallback, only the callee's chain
//     applies.
//   - A caller-side function payload is rejected: the merge step cannot
//     safely decide which side's runtime props a deferred function should
//     receive, so an as-style binding must carry a concrete value.
func (r *Resolution) resolveForward(slot string, fw node.Forward, bucketSpecs []node.OverrideSpec, calleeFallback []node.Child, calleeProps node.Props) ([]node.Renderable, error) {
	merged := mergeProps(calleeProps, fw.CallerProps)

	callerContent, err := flatten(r.def.Component, slot, fw.Content)
	if err != nil {
		return nil, err
	}
	callerFallback, err := flatten(r.def.Component, slot, fw.CallerFallback)
	if err != nil {
		return nil, err
	}
	calleeParts, err := flatten(r.def.Component, slot, calleeFallback)
	if err != nil {
		return nil, err
	}

	// Caller-side chain: markers beside the binding, the binding's own
	// chain, then markers found inside the caller's content and fallback.
	callerChain := append([]node.OverrideSpec{}, bucketSpecs...)
	callerChain = append(callerChain, fw.Chain...)
	callerChain = append(callerChain, callerContent.specs...)
	callerChain = append(callerChain, callerFallback.specs...)
	calleeChain := calleeParts.specs

	var active []node.Child
	var chain []node.OverrideSpec
	var callerSide bool

	switch {
	case len(callerContent.direct) > 0:
		active = callerContent.direct
		callerSide = true
	case len(callerFallback.direct) > 0:
		active = callerFallback.direct
		callerSide = true
	case len(callerFallback.wrapped) > 0:
		active = callerFallback.wrapped
		callerSide = true
	case len(calleeParts.direct) > 0:
		active = calleeParts.direct
	default:
		active = calleeParts.wrapped
	}

	if callerSide {
		chain = append(append([]node.OverrideSpec{}, callerChain...), calleeChain...)
	} else {
		chain = calleeChain
	}

	if len(active) == 0 {
		r.record(Event{Kind: EventForwardMerged, Slot: slot, Detail: "source=none"})
		return nil, nil
	}

	content, err := r.realize(slot, active, merged, callerSide)
	if err != nil {
		return nil, err
	}

	source := "callee_fallback"
	if callerSide {
		if len(callerContent.direct) > 0 {
			source = "caller_content"
		} else {
			source = "caller_fallback"
		}
	}
	r.record(Event{
		Kind:   EventForwardMerged,
		Slot:   slot,
		Detail: fmt.Sprintf("source=%s nodes=%d chain=%d", source, len(content), len(chain)),
	})

	return r.applyChain(slot, chain, content)
}

// mergeProps overlays caller props onto callee defaults. A key present in
// both resolves to the caller's value.
func mergeProps(calleeDefaults, callerProps node.Props) node.Props {
	if calleeDefaults == nil && callerProps == nil {
		return nil
	}
	merged := make(node.Props, len(calleeDefaults)+len(callerProps))
	for k, v := range calleeDefaults {
		merged[k] = v
	}
	for k, v := range callerProps {
		merged[k] = v
	}
	return merged
}
