package plugin

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("plugin").Funcs(template.FuncMap{
	"inc":      func(i int) int { return i + 1 },
	"pyString": pyString,
	"pyJSON":   pyJSON,
}).ParseFS(templateFS, "templates/*.tmpl"))

// generated maps each rendered file to its template.
var generated = []struct {
	path     string
	template string
}{
	{filepath.Join("src", "main.py"), "main.py.tmpl"},
	{filepath.Join("tests", "test_virtual.py"), "test_virtual.py.tmpl"},
	{"CHANGE_LOG.md", "CHANGE_LOG.md.tmpl"},
}

type templateData struct {
	Profile *Profile
	Success []BehaviorScenario
	Failure []BehaviorScenario
}

// Factory generates virtual plugins from profiles.
type Factory struct {
	logger *zap.Logger
}

// NewFactory creates a Factory.
func NewFactory(logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{logger: logger}
}

// Create builds <outputDir>/<profile name>/ from the profile at profilePath,
// replacing any previous plugin of that name, and returns its path.
func (f *Factory) Create(profilePath, outputDir string) (string, error) {
	profile, err := ReadProfile(profilePath)
	if err != nil {
		return "", err
	}
	if profile.Name == "" || profile.Name == "." || profile.Name == ".." || filepath.Base(profile.Name) != profile.Name {
		return "", &ValidationError{Path: profilePath, Problems: []string{fmt.Sprintf("name %q is not a valid directory name", profile.Name)}}
	}

	raw, err := os.ReadFile(profilePath)
	if err != nil {
		return "", fmt.Errorf("read profile: %w", err)
	}

	pluginDir := filepath.Join(outputDir, profile.Name)
	if err := os.RemoveAll(pluginDir); err != nil {
		return "", fmt.Errorf("clear %s: %w", pluginDir, err)
	}
	for _, dir := range []string{"src", "tests", ".history"} {
		if err := os.MkdirAll(filepath.Join(pluginDir, dir), 0o755); err != nil {
			return "", fmt.Errorf("create plugin layout: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(pluginDir, ProfileFile), raw, 0o644); err != nil {
		return "", fmt.Errorf("copy profile: %w", err)
	}

	data := templateData{Profile: profile}
	if profile.BehavioralProfile != nil {
		data.Success = profile.BehavioralProfile.SuccessScenarios
		data.Failure = profile.BehavioralProfile.FailureScenarios
	}

	for _, g := range generated {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, g.template, data); err != nil {
			return "", fmt.Errorf("render %s: %w", g.path, err)
		}
		if err := os.WriteFile(filepath.Join(pluginDir, g.path), buf.Bytes(), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", g.path, err)
		}
	}

	f.logger.Info("virtual plugin created",
		zap.String("name", profile.Name),
		zap.String("path", pluginDir),
		zap.Int("success_scenarios", len(data.Success)),
		zap.Int("failure_scenarios", len(data.Failure)))

	return pluginDir, nil
}

// pyString renders s as a double-quoted Python string literal. JSON string
// escapes are a subset of Python's.
func pyString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// pyJSON renders v as JSON wrapped in a Python string literal, for json.loads.
func pyJSON(v any) (string, error) {
	b, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return "", err
	}
	return pyString(string(b))
}

// normalizeYAML converts the map[any]any values yaml can produce for
// untyped nodes into JSON-encodable maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
