// Package prompt renders a playbook's prompt template for one run.
package prompt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/plugin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Environment selects which kind of plugin the agent is working on.
type Environment string

const (
	// EnvVirtual is a plugin generated from its profile; behavior lives in the scenarios.
	EnvVirtual Environment = "virtual"
	// EnvReal is a hand-written plugin; behavior lives in src/.
	EnvReal Environment = "real"
)

// WorkingDirectory is what {working_directory} expands to. Tools resolve
// paths against the plugin root, so the prompt refers to it relatively.
const WorkingDirectory = "./"

// ErrInvalidEnvironment is returned for an environment other than virtual or real.
var ErrInvalidEnvironment = errors.New("invalid environment")

const (
	virtualInstructions = "To modify the behavior of a Virtual Plugin, you must edit the " +
		"`plugin-profile.yaml` file to change the defined success and failure scenarios. " +
		"The Python code in `src/` is a generic interpreter and should not be modified."

	realInstructions = "To fix this bug, you must modify the source code in the `src/` directory " +
		"to correctly handle this edge case."
)

// Instructions returns the canned instruction block for env.
func Instructions(env Environment) (string, error) {
	switch env {
	case EnvVirtual:
		return virtualInstructions, nil
	case EnvReal:
		return realInstructions, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidEnvironment, env, EnvVirtual, EnvReal)
	}
}

// Construct fills the placeholders of template. {environment} and
// {working_directory} are substituted first, then each extra {key} in key
// order, then {environment_specific_instructions}. Placeholders without a
// value are left as is. profile may be nil; no built-in placeholder reads it.
func Construct(template string, profile *plugin.Profile, env Environment, extras map[string]string) (string, error) {
	instructions, err := Instructions(env)
	if err != nil {
		return "", err
	}

	out := strings.ReplaceAll(template, "{environment}", cases.Title(language.Und).String(string(env)))
	out = strings.ReplaceAll(out, "{working_directory}", WorkingDirectory)

	keys := make([]string, 0, len(extras))
	for k := range extras {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out = strings.ReplaceAll(out, "{"+k+"}", extras[k])
	}

	return strings.ReplaceAll(out, "{environment_specific_instructions}", instructions), nil
}
