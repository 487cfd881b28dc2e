package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfile = `name: Test-Plugin
version: 1.2.3
description: A test plugin.
mcp_profile:
  - name: test_tool
    description: A test tool.
    parameters:
      param1:
        type: string
        description: A test parameter.
    output:
      type: string
      description: A test output.
dependencies:
  - python:pytest
configuration:
  - name: TEST_VAR
    description: A test env var.
    default: test_value
behavioral_profile:
  success_scenarios:
    - description: A success scenario.
      tool_call: test_tool
      inputs:
        param1: value
      expected_log: "INFO: Success"
  failure_scenarios: []
`

func TestParseProfile_Valid(t *testing.T) {
	p, err := ParseProfile([]byte(validProfile))

	require.NoError(t, err)
	assert.Equal(t, "Test-Plugin", p.Name)
	assert.Equal(t, "1.2.3", p.Version)
	require.Len(t, p.MCPProfile, 1)
	assert.Equal(t, "string", p.MCPProfile[0].Parameters["param1"].Type)
	assert.Equal(t, []string{"python:pytest"}, p.Dependencies)
	assert.Equal(t, "test_value", p.Configuration[0].Default)
	require.NotNil(t, p.BehavioralProfile)
	require.Len(t, p.BehavioralProfile.SuccessScenarios, 1)
	assert.Equal(t, map[string]any{"param1": "value"}, p.BehavioralProfile.SuccessScenarios[0].Inputs)
	assert.Empty(t, p.BehavioralProfile.FailureScenarios)
}

func TestParseProfile_OptionalFieldsOmitted(t *testing.T) {
	p, err := ParseProfile([]byte("name: P\nversion: 0.0.1\ndescription: d\nmcp_profile: []\n"))

	require.NoError(t, err)
	assert.Empty(t, p.MCPProfile)
	assert.Nil(t, p.BehavioralProfile)
	assert.Nil(t, p.Dependencies)
}

func TestParseProfile_InvalidVersions(t *testing.T) {
	for _, version := range []string{`"1.0"`, `"1"`, `"1.0.a"`, `"v1.0.0"`, `""`} {
		t.Run(version, func(t *testing.T) {
			_, err := ParseProfile([]byte("name: P\nversion: " + version + "\ndescription: d\nmcp_profile: []\n"))

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, err.Error(), "semantic versioning format")
		})
	}
}

func TestParseProfile_CollectsAllProblems(t *testing.T) {
	src := `version: "1"
mcp_profile:
  - name: t
    parameters:
      p:
        type: string
behavioral_profile:
  success_scenarios:
    - description: s
      tool_call: t
`
	_, err := ParseProfile([]byte(src))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Problems, "name: field required")
	assert.Contains(t, vErr.Problems, "description: field required")
	assert.Contains(t, vErr.Problems, "mcp_profile[0].description: field required")
	assert.Contains(t, vErr.Problems, "mcp_profile[0].output: field required")
	assert.Contains(t, vErr.Problems, "mcp_profile[0].parameters.p.description: field required")
	assert.Contains(t, vErr.Problems, "behavioral_profile.success_scenarios[0].inputs: field required")
	assert.Contains(t, vErr.Problems, "behavioral_profile.success_scenarios[0].expected_log: field required")
	assert.Len(t, vErr.Problems, 8)
}

func TestParseProfile_NotAMapping(t *testing.T) {
	for _, src := range []string{"", "- a\n- b\n", "just text"} {
		_, err := ParseProfile([]byte(src))

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, "source %q", src)
	}
}

func TestParseProfile_WrongType(t *testing.T) {
	_, err := ParseProfile([]byte("name: P\nversion: 1.0.0\ndescription: d\nmcp_profile: nope\n"))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Problems)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProfileFile), []byte(validProfile), 0o644))

	p, err := LoadProfile(dir)

	require.NoError(t, err)
	assert.Equal(t, "Test-Plugin", p.Name)
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(t.TempDir())

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoadProfile_InvalidCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProfileFile)
	require.NoError(t, os.WriteFile(path, []byte("name: Test\nversion: 1\n"), 0o644))

	_, err := LoadProfile(dir)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, path, vErr.Path)
	assert.Contains(t, err.Error(), path)
}
