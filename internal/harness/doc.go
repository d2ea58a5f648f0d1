// Package harness provides conformance testing for dovetail components.
//
// The harness loads a component definition (CUE), builds a child list from
// a declarative YAML scenario, resolves each requested slot, and validates
// outputs, advisories, and the resolution trace.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	definition: defs/button.cue
//	children:
//	  - slot: rightIcon
//	    element: { type: icon, props: { name: chevron } }
//	  - text: "Add"
//	invoke:
//	  - slot: default
//	    props: { size: "sm" }
//	    fallback:
//	      - text: "Expand for more"
//	    expect:
//	      output:
//	        - text: "Add"
//	assertions:
//	  - type: has_slot
//	    slot: rightIcon
//	    present: true
//
// # Assertion Types
//
//   - has_slot: Verifies the presence map for a slot
//   - advisory_count: Verifies the total number of advisories
//   - advisory_contains: Verifies an advisory with code (and slot) exists
//   - replay_deterministic: Re-resolves the scenario and requires
//     byte-identical canonical output and event streams
//
// # Deterministic Testing
//
// Scenarios express transforms through a small declarative DSL (set,
// append, drop, replace) and pass-up functions through the `func` payload,
// so every construct is pure and reproducible. Golden snapshots of the
// canonical outputs and event stream are compared with goldie.
package harness
