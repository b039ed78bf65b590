package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGoodScenarios(t *testing.T) {
	out, err := execute("validate", filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+filepath.Join("testdata", "scenarios", "good.yaml"))
	assert.Contains(t, out, "2 scenarios, 0 invalid")
}

func TestValidateInvalidScenario(t *testing.T) {
	out, err := execute("validate", filepath.Join("testdata", "broken"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, `unknown parent "ghost"`)
}

func TestValidateMissingPath(t *testing.T) {
	_, err := execute("validate", filepath.Join("testdata", "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateJSONOutput(t *testing.T) {
	out, err := execute("--format", "json", "validate", filepath.Join("testdata", "scenarios", "good.yaml"))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	results, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	entry := results[0].(map[string]any)
	assert.Equal(t, true, entry["valid"])
	assert.Equal(t, "good", entry["name"])
}
