// Package resolve implements the dovetail slot resolution engine.
//
// The engine is the heart of dovetail - it takes a component definition,
// the raw top-level children, and per-slot fallbacks and runtime props, and
// produces the named renderable output for each slot.
//
// ARCHITECTURE:
//
// Pure Single-Pass Pipeline:
// One Resolution is built per render invocation: classify runs once over
// the children, then each slot accessor resolves independently. All state
// is local to the pass - nothing persists between renders, nothing is
// mutated in place, and re-entrant accessor calls (a slot resolved from
// inside another slot's resolution) are safe because no structure is
// shared.
//
// Resolution Flow (per slot occurrence):
//
//	Empty -> Provided | Fallback(caller) | Fallback(callee)
//	      -> OverrideApplied -> Resolved
//
//  1. Classifier buckets the children (once per Resolution)
//  2. The accessor picks active content: the bucket's nodes in order, or
//     the supplied fallback when the bucket holds no content
//  3. Function payloads are realized with the runtime props
//  4. The override chain runs left-to-right; each spec's output feeds the
//     next spec's input
//  5. A forward marker resolves through the template-forward merger first,
//     then its result flows through the chain as ordinary content would
//
// DETERMINISM:
//
// Within one bucket, node order equals caller declaration order. Within one
// chain, application order equals declaration order. Prop transforms apply
// in sorted prop-name order. Resolving identical inputs twice yields
// structurally identical output; golden tests pin this down.
package resolve
