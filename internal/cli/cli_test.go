package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with a fresh command tree and captured output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "validate", filepath.Join("testdata", "button.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestValidate_AllValid(t *testing.T) {
	stdout, _, err := execute(t, "validate",
		filepath.Join("testdata", "button.cue"),
		filepath.Join("testdata", "scenarios", "ok.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok   "+filepath.Join("testdata", "button.cue"))
	assert.Contains(t, stdout, "ok   "+filepath.Join("testdata", "scenarios", "ok.yaml"))
}

func TestValidate_FailureExitsOne(t *testing.T) {
	stdout, _, err := execute(t, "validate",
		filepath.Join("testdata", "button.cue"),
		filepath.Join("testdata", "missing.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "FAIL "+filepath.Join("testdata", "missing.cue"))
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed validation")
}

func TestValidate_UnsupportedExtension(t *testing.T) {
	_, _, err := execute(t, "validate", "notes.txt")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidate_JSONFormat(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "validate",
		filepath.Join("testdata", "button.cue"))
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status": "ok"`)
	assert.Contains(t, stdout, `"valid": true`)
}

func TestResolve_PassingScenario(t *testing.T) {
	stdout, _, err := execute(t, "resolve", filepath.Join("testdata", "scenarios", "ok.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, `slot default -> [{"kind":"text","text":"Add"}]`)
}

func TestResolve_FailingScenarioExitsOne(t *testing.T) {
	_, _, err := execute(t, "resolve", filepath.Join("testdata", "scenarios", "fail.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "expectation(s) failed")
}

func TestResolve_MissingScenarioExitsTwo(t *testing.T) {
	_, _, err := execute(t, "resolve", filepath.Join("testdata", "scenarios", "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolve_RecordsAndListsTrace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")

	_, _, err := execute(t, "resolve",
		filepath.Join("testdata", "scenarios", "ok.yaml"),
		"--db", dbPath)
	require.NoError(t, err)

	stdout, _, err := execute(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "cli-ok")
	assert.Contains(t, stdout, "1 pass(es)")
}

func TestTest_MixedResultsExitsOne(t *testing.T) {
	stdout, _, err := execute(t, "test", filepath.Join("testdata", "scenarios"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "FAIL "+filepath.Join("testdata", "scenarios", "fail.yaml"))
	assert.Contains(t, stdout, "PASS "+filepath.Join("testdata", "scenarios", "ok.yaml"))
	assert.Contains(t, stdout, "2 scenario(s), 1 failure(s)")
}

func TestTest_EmptyDirExitsTwo(t *testing.T) {
	_, _, err := execute(t, "test", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no scenario files found")
}

func TestTest_MissingDirExitsTwo(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTrace_MissingDatabaseExitsTwo(t *testing.T) {
	_, _, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestTrace_UnknownTokenExitsTwo(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	_, _, err := execute(t, "resolve",
		filepath.Join("testdata", "scenarios", "ok.yaml"),
		"--db", dbPath)
	require.NoError(t, err)

	_, _, err = execute(t, "trace", "--db", dbPath, "no-such-token")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no events recorded")
}

func TestTrace_DumpEventsByToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	_, _, err := execute(t, "resolve",
		filepath.Join("testdata", "scenarios", "ok.yaml"),
		"--db", dbPath)
	require.NoError(t, err)

	listing, _, err := execute(t, "--format", "json", "trace", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			Token     string
			Component string
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(listing), &resp))
	require.Len(t, resp.Data, 1)
	token := resp.Data[0].Token
	require.NotEmpty(t, token)

	stdout, _, err := execute(t, "trace", "--db", dbPath, token)
	require.NoError(t, err)
	assert.Contains(t, stdout, "classify")
	assert.Contains(t, stdout, "slot_resolved")
}
