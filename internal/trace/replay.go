package trace

import (
	"bytes"
	"fmt"

	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/resolve"
)

// Invocation is one accessor call of a recorded pass: the slot name plus
// the fallback and props the component body supplied.
type Invocation struct {
	Slot     string
	Fallback []node.Child
	Props    node.Props
}

// CanonicalEvents encodes an event sequence into a stable byte form for
// comparison and golden files. One line per event; detail strings are
// engine-produced and already deterministic.
func CanonicalEvents(events []resolve.Event) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", ev.Kind, ev.Slot, ev.Detail)
	}
	return buf.Bytes()
}

// VerifyDeterministic resolves the same inputs twice and compares both the
// canonical outputs and the canonical event streams byte-for-byte.
// A non-nil error means the engine violated its idempotence guarantee (or
// a payload function is impure).
func VerifyDeterministic(def *resolve.Definition, children []node.Child, invocations []Invocation) error {
	first, firstEvents, err := runPass(def, children, invocations)
	if err != nil {
		return err
	}
	second, secondEvents, err := runPass(def, children, invocations)
	if err != nil {
		return fmt.Errorf("second pass failed where first succeeded: %w", err)
	}

	for i := range invocations {
		if !bytes.Equal(first[i], second[i]) {
			return fmt.Errorf("slot %q resolved differently across passes:\n  first:  %s\n  second: %s",
				invocations[i].Slot, first[i], second[i])
		}
	}
	if !bytes.Equal(CanonicalEvents(firstEvents), CanonicalEvents(secondEvents)) {
		return fmt.Errorf("event streams differ across passes")
	}
	return nil
}

func runPass(def *resolve.Definition, children []node.Child, invocations []Invocation) ([][]byte, []resolve.Event, error) {
	rec := &resolve.MemoryRecorder{}
	res, err := resolve.New(def, children, resolve.WithRecorder(rec))
	if err != nil {
		return nil, nil, err
	}

	outputs := make([][]byte, len(invocations))
	for i, inv := range invocations {
		nodes, err := res.ResolveSlot(inv.Slot, inv.Fallback, inv.Props)
		if err != nil {
			return nil, nil, fmt.Errorf("slot %q: %w", inv.Slot, err)
		}
		encoded, err := node.MarshalCanonicalList(nodes)
		if err != nil {
			return nil, nil, fmt.Errorf("slot %q: %w", inv.Slot, err)
		}
		outputs[i] = encoded
	}
	return outputs, rec.Events, nil
}
