package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each scenario file runs end to end and its snapshot is compared against
// the golden fixture named after the scenario.
func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		file := file
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_ErrorInvocation(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "strict_mismatch.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	snapshot, err := Snapshot(scenario.Name, result)
	require.NoError(t, err)
	assert.Contains(t, string(snapshot), "slot leftIcon -> error: MISMATCH")
	assert.Contains(t, string(snapshot), "has: default=false leftIcon=true rightIcon=false")
}
