package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ProfileFile is the name of the profile inside a plugin directory.
const ProfileFile = "plugin-profile.yaml"

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Profile describes a plugin: its tools, configuration and scripted behavior.
type Profile struct {
	Name              string              `yaml:"name" json:"name"`
	Version           string              `yaml:"version" json:"version"`
	Description       string              `yaml:"description" json:"description"`
	MCPProfile        []MCPTool           `yaml:"mcp_profile" json:"mcp_profile"`
	Dependencies      []string            `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Configuration     []ConfigurationItem `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	BehavioralProfile *BehavioralProfile  `yaml:"behavioral_profile,omitempty" json:"behavioral_profile,omitempty"`
}

// MCPTool is one tool the plugin exposes.
type MCPTool struct {
	Name        string                  `yaml:"name" json:"name"`
	Description string                  `yaml:"description" json:"description"`
	Parameters  map[string]MCPParameter `yaml:"parameters" json:"parameters"`
	Output      map[string]any          `yaml:"output" json:"output"`
}

// MCPParameter describes a tool parameter.
type MCPParameter struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// ConfigurationItem is an environment setting the plugin reads.
type ConfigurationItem struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Default     string `yaml:"default" json:"default"`
}

// BehavioralProfile lists the scenarios a virtual plugin replays.
type BehavioralProfile struct {
	SuccessScenarios []BehaviorScenario `yaml:"success_scenarios" json:"success_scenarios"`
	FailureScenarios []BehaviorScenario `yaml:"failure_scenarios" json:"failure_scenarios"`
}

// BehaviorScenario maps a tool call with given inputs to the log it produces.
type BehaviorScenario struct {
	Description   string         `yaml:"description" json:"description"`
	ToolCall      string         `yaml:"tool_call" json:"tool_call"`
	Inputs        map[string]any `yaml:"inputs" json:"inputs"`
	ExpectedLog   string         `yaml:"expected_log" json:"expected_log"`
	ExpectedError string         `yaml:"expected_error,omitempty" json:"expected_error,omitempty"`
}

// LoadProfile reads and validates plugin-profile.yaml from dir.
func LoadProfile(dir string) (*Profile, error) {
	path := filepath.Join(dir, ProfileFile)
	return ReadProfile(path)
}

// ReadProfile reads and validates the profile at path.
func ReadProfile(path string) (*Profile, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w in %s", ErrProfileNotFound, filepath.Dir(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	profile, err := ParseProfile(data)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			vErr.Path = path
		}
		return nil, err
	}
	return profile, nil
}

// ParseProfile decodes and validates profile YAML. Structural and semantic
// problems are all reported in a single *ValidationError.
func ParseProfile(data []byte) (*Profile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if len(doc.Content) == 0 {
		return nil, &ValidationError{Problems: []string{"profile is empty"}}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{Problems: []string{"profile must be a mapping"}}
	}

	var problems []string
	problems = append(problems, checkShape(root)...)

	var profile Profile
	if err := root.Decode(&profile); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			problems = append(problems, typeErr.Errors...)
		} else {
			problems = append(problems, err.Error())
		}
	}

	if mappingValue(root, "version") != nil {
		problems = append(problems, profile.validate()...)
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return &profile, nil
}

func (p *Profile) validate() []string {
	var problems []string
	if !semverPattern.MatchString(p.Version) {
		problems = append(problems, fmt.Sprintf(`version %q must be in semantic versioning format (e.g. "1.0.0")`, p.Version))
	}
	return problems
}

// checkShape reports required keys missing anywhere in the profile tree.
func checkShape(root *yaml.Node) []string {
	var problems []string
	requireKeys(root, "", &problems, "name", "version", "description", "mcp_profile")

	eachItem(mappingValue(root, "mcp_profile"), "mcp_profile", func(item *yaml.Node, path string) {
		requireKeys(item, path, &problems, "name", "description", "parameters", "output")
		params := mappingValue(item, "parameters")
		if params == nil || params.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(params.Content); i += 2 {
			requireKeys(params.Content[i+1], path+".parameters."+params.Content[i].Value, &problems, "type", "description")
		}
	})

	eachItem(mappingValue(root, "configuration"), "configuration", func(item *yaml.Node, path string) {
		requireKeys(item, path, &problems, "name", "description", "default")
	})

	if behavior := mappingValue(root, "behavioral_profile"); behavior != nil && behavior.Kind == yaml.MappingNode {
		for _, kind := range []string{"success_scenarios", "failure_scenarios"} {
			eachItem(mappingValue(behavior, kind), "behavioral_profile."+kind, func(item *yaml.Node, path string) {
				requireKeys(item, path, &problems, "description", "tool_call", "inputs", "expected_log")
			})
		}
	}
	return problems
}

func requireKeys(node *yaml.Node, path string, problems *[]string, keys ...string) {
	if node.Kind != yaml.MappingNode {
		*problems = append(*problems, fmt.Sprintf("%s: must be a mapping", path))
		return
	}
	for _, key := range keys {
		if mappingValue(node, key) == nil {
			field := key
			if path != "" {
				field = path + "." + key
			}
			*problems = append(*problems, fmt.Sprintf("%s: field required", field))
		}
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func eachItem(seq *yaml.Node, path string, fn func(item *yaml.Node, path string)) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}
	for i, item := range seq.Content {
		fn(item, fmt.Sprintf("%s[%d]", path, i))
	}
}
