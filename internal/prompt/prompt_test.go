package prompt

import (
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = &plugin.Profile{Name: "Test-Plugin", Version: "1.0.0"}

func TestConstruct_Placeholders(t *testing.T) {
	tmpl := "Env: {environment}. Dir: {working_directory}. Bug: {bug_description}.\n{environment_specific_instructions}"

	tests := []struct {
		env          Environment
		title        string
		instructions string
	}{
		{EnvVirtual, "Virtual", "plugin-profile.yaml"},
		{EnvReal, "Real", "source code in the `src/` directory"},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			out, err := Construct(tmpl, testProfile, tt.env, map[string]string{"bug_description": "crash on empty input"})

			require.NoError(t, err)
			assert.Contains(t, out, "Env: "+tt.title+".")
			assert.Contains(t, out, "Dir: ./.")
			assert.Contains(t, out, "Bug: crash on empty input.")
			assert.Contains(t, out, tt.instructions)
			assert.NotContains(t, out, "{")
		})
	}
}

func TestConstruct_InvalidEnvironment(t *testing.T) {
	for _, env := range []Environment{"", "staging", "Real"} {
		_, err := Construct("{environment}", testProfile, env, nil)
		assert.ErrorIs(t, err, ErrInvalidEnvironment, "env %q", env)
	}
}

func TestConstruct_UnknownPlaceholdersLeftAlone(t *testing.T) {
	out, err := Construct("{missing} {environment}", testProfile, EnvReal, nil)

	require.NoError(t, err)
	assert.Equal(t, "{missing} Real", out)
}

func TestConstruct_ExtrasAppliedInKeyOrder(t *testing.T) {
	out, err := Construct("{a}", testProfile, EnvReal, map[string]string{
		"a": "{b}",
		"b": "resolved",
	})

	require.NoError(t, err)
	assert.Equal(t, "resolved", out)
}

func TestConstruct_EveryOccurrence(t *testing.T) {
	out, err := Construct("{environment}/{environment}", nil, EnvVirtual, nil)

	require.NoError(t, err)
	assert.Equal(t, "Virtual/Virtual", out)
}
