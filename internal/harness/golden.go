package harness

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/dovetail-ui/dovetail/internal/node"
)

// Snapshot renders a result into a stable text form for golden comparison:
// one section per invocation with its canonical output (or error), then
// the presence map, advisories, and the event stream.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", scenarioName)

	for _, inv := range result.Invocations {
		if inv.Err != nil {
			fmt.Fprintf(&buf, "slot %s -> error: %v\n", inv.Slot, inv.Err)
			continue
		}
		encoded, err := node.MarshalCanonicalList(inv.Output)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", inv.Slot, err)
		}
		fmt.Fprintf(&buf, "slot %s -> %s\n", inv.Slot, encoded)
	}

	buf.WriteString("has:")
	for _, name := range sortedKeys(result.Has) {
		fmt.Fprintf(&buf, " %s=%v", name, result.Has[name])
	}
	buf.WriteByte('\n')

	for _, adv := range result.Advisories {
		fmt.Fprintf(&buf, "advisory %s slot=%s: %s\n", adv.Code, adv.Slot, adv.Message)
	}
	for _, ev := range result.Events {
		fmt.Fprintf(&buf, "event %s slot=%s %s\n", ev.Kind, ev.Slot, ev.Detail)
	}

	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file under testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
