package harness

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/resolve"
	"github.com/dovetail-ui/dovetail/internal/schema"
	"github.com/dovetail-ui/dovetail/internal/trace"
)

// Result holds the outcome of executing a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool

	// Errors lists expectation and assertion failures in order.
	Errors []string

	// Invocations holds per-step resolution outcomes in invoke order.
	Invocations []InvocationResult

	// Has is the slot presence map.
	Has map[string]bool

	// Advisories are the non-fatal diagnostics from the pass.
	Advisories []resolve.Advisory

	// Events is the recorded resolution trace.
	Events []resolve.Event
}

// InvocationResult is the outcome of one accessor call.
type InvocationResult struct {
	Slot   string
	Output []node.Renderable
	Err    error
}

// Run executes a scenario: compiles the definition, builds the children,
// resolves each invocation, and evaluates expectations and assertions.
//
// A resolution error only fails the scenario when the step did not expect
// it; expected errors (strict mismatch, invalid forward) are part of the
// contract under test.
func Run(scenario *Scenario) (*Result, error) {
	def, err := schema.LoadDefinition(scenario.Definition)
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}

	children, err := buildChildren(scenario.Children)
	if err != nil {
		return nil, fmt.Errorf("children: %w", err)
	}

	rec := &resolve.MemoryRecorder{}
	res, err := resolve.New(def, children, resolve.WithRecorder(rec))
	if err != nil {
		return nil, fmt.Errorf("resolution: %w", err)
	}

	result := &Result{Pass: true, Has: res.Has()}

	invocations := make([]trace.Invocation, 0, len(scenario.Invoke))
	for i, step := range scenario.Invoke {
		fallback, err := buildChildren(step.Fallback)
		if err != nil {
			return nil, fmt.Errorf("invoke[%d] fallback: %w", i, err)
		}
		props, err := node.PropsFromAny(step.Props)
		if err != nil {
			return nil, fmt.Errorf("invoke[%d] props: %w", i, err)
		}
		invocations = append(invocations, trace.Invocation{
			Slot:     step.Slot,
			Fallback: fallback,
			Props:    props,
		})

		output, resolveErr := res.ResolveSlot(step.Slot, fallback, props)
		result.Invocations = append(result.Invocations, InvocationResult{
			Slot:   step.Slot,
			Output: output,
			Err:    resolveErr,
		})

		checkExpectation(result, i, step, output, resolveErr)
	}

	result.Advisories = res.Advisories()
	result.Events = rec.Events

	for i, assertion := range scenario.Assertions {
		checkAssertion(result, i, assertion, def, children, invocations)
	}

	return result, nil
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func checkExpectation(result *Result, index int, step InvokeStep, output []node.Renderable, resolveErr error) {
	expect := step.Expect

	if expect == nil || expect.Error == "" {
		if resolveErr != nil {
			result.fail("invoke[%d] %s: unexpected error: %v", index, step.Slot, resolveErr)
			return
		}
	}
	if expect == nil {
		return
	}

	switch {
	case expect.Error != "":
		var re *resolve.ResolveError
		if resolveErr == nil {
			result.fail("invoke[%d] %s: expected error %s, got success", index, step.Slot, expect.Error)
		} else if !asResolveError(resolveErr, &re) || string(re.Code) != expect.Error {
			result.fail("invoke[%d] %s: expected error %s, got: %v", index, step.Slot, expect.Error, resolveErr)
		}

	case expect.Absent:
		if len(output) != 0 {
			result.fail("invoke[%d] %s: expected nothing rendered, got %d nodes", index, step.Slot, len(output))
		}

	default:
		expected := make([]node.Renderable, 0, len(expect.Output))
		for i, spec := range expect.Output {
			n, err := buildRenderable(spec)
			if err != nil {
				result.fail("invoke[%d] %s: bad expectation output[%d]: %v", index, step.Slot, i, err)
				return
			}
			expected = append(expected, n)
		}
		want, err := node.MarshalCanonicalList(expected)
		if err != nil {
			result.fail("invoke[%d] %s: cannot encode expectation: %v", index, step.Slot, err)
			return
		}
		got, err := node.MarshalCanonicalList(output)
		if err != nil {
			result.fail("invoke[%d] %s: cannot encode output: %v", index, step.Slot, err)
			return
		}
		if !bytes.Equal(want, got) {
			result.fail("invoke[%d] %s: output mismatch\n  want: %s\n  got:  %s", index, step.Slot, want, got)
		}
	}
}

func checkAssertion(result *Result, index int, a Assertion, def *resolve.Definition, children []node.Child, invocations []trace.Invocation) {
	switch a.Type {
	case AssertHasSlot:
		got, declared := result.Has[a.Slot]
		if !declared {
			result.fail("assertions[%d]: has_slot %q: slot is not declared", index, a.Slot)
			return
		}
		if got != a.Present {
			result.fail("assertions[%d]: has_slot %q: want %v, got %v", index, a.Slot, a.Present, got)
		}

	case AssertAdvisoryCount:
		if len(result.Advisories) != a.Count {
			result.fail("assertions[%d]: advisory_count: want %d, got %d", index, a.Count, len(result.Advisories))
		}

	case AssertAdvisoryContains:
		for _, adv := range result.Advisories {
			if string(adv.Code) == a.Code && (a.Slot == "" || adv.Slot == a.Slot) {
				return
			}
		}
		result.fail("assertions[%d]: advisory_contains: no advisory with code=%s slot=%q", index, a.Code, a.Slot)

	case AssertReplayDeterministic:
		// Only meaningful when every invocation succeeds; errored steps
		// already failed or were expected above.
		if err := trace.VerifyDeterministic(def, children, succeededOnly(invocations, result)); err != nil {
			result.fail("assertions[%d]: replay_deterministic: %v", index, err)
		}
	}
}

func succeededOnly(invocations []trace.Invocation, result *Result) []trace.Invocation {
	out := make([]trace.Invocation, 0, len(invocations))
	for i, inv := range invocations {
		if i < len(result.Invocations) && result.Invocations[i].Err == nil {
			out = append(out, inv)
		}
	}
	return out
}

func asResolveError(err error, target **resolve.ResolveError) bool {
	return errors.As(err, target)
}
