// Package testhelpers provides shared utilities for integration testing
package testhelpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// ScriptedProvider replays a fixed sequence of model turns. Each Generate call
// consumes the next turn; once the script is exhausted it answers "Done".
type ScriptedProvider struct {
	mu        sync.Mutex
	responses []scripted
	index     int
	calls     [][]provider.Message

	// OnGenerateCalled is invoked with a copy of the history on every call.
	OnGenerateCalled func(history []provider.Message, tools []tool.Declaration)
}

type scripted struct {
	msg provider.Message
	err error
	fn  func(history []provider.Message) provider.Message
}

// NewScriptedProvider creates an empty script.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{}
}

// WithText queues a final text turn.
func (p *ScriptedProvider) WithText(text string) *ScriptedProvider {
	p.responses = append(p.responses, scripted{msg: provider.ModelText(text)})
	return p
}

// WithToolCall queues a tool-call turn.
func (p *ScriptedProvider) WithToolCall(name string, args map[string]any) *ScriptedProvider {
	p.responses = append(p.responses, scripted{msg: provider.ModelToolCall(name, args)})
	return p
}

// WithError queues a failing call.
func (p *ScriptedProvider) WithError(err error) *ScriptedProvider {
	p.responses = append(p.responses, scripted{err: err})
	return p
}

// WithFunc queues a turn computed from the history at call time.
func (p *ScriptedProvider) WithFunc(fn func(history []provider.Message) provider.Message) *ScriptedProvider {
	p.responses = append(p.responses, scripted{fn: fn})
	return p
}

// Generate implements provider.Provider.
func (p *ScriptedProvider) Generate(ctx context.Context, history []provider.Message, tools []tool.Declaration) (provider.Message, error) {
	if err := ctx.Err(); err != nil {
		return provider.Message{}, err
	}

	p.mu.Lock()
	snapshot := make([]provider.Message, len(history))
	for i, m := range history {
		snapshot[i] = m.Clone()
	}
	p.calls = append(p.calls, snapshot)
	var next scripted
	if p.index < len(p.responses) {
		next = p.responses[p.index]
		p.index++
	} else {
		next = scripted{msg: provider.ModelText("Done")}
	}
	p.mu.Unlock()

	if p.OnGenerateCalled != nil {
		p.OnGenerateCalled(snapshot, tools)
	}

	if next.fn != nil {
		return next.fn(snapshot), nil
	}
	if next.err != nil {
		return provider.Message{}, next.err
	}
	return next.msg.Clone(), nil
}

// Calls returns the history sent on each Generate call.
func (p *ScriptedProvider) Calls() [][]provider.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

// Remaining reports how many scripted turns have not been consumed.
func (p *ScriptedProvider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.responses) - p.index
}

// Files maps workspace-relative paths to contents. A path ending in "/"
// creates an empty directory.
type Files map[string]string

// NewWorkspace creates a temporary directory populated with files.
func NewWorkspace(t *testing.T, files Files) string {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	return root
}

// WriteFiles writes files under root, creating parent directories.
func WriteFiles(t *testing.T, root string, files Files) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// ReadFile returns the content of a workspace file, failing the test on error.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// PlaybookSource renders a minimal playbook with the given prompt template.
func PlaybookSource(objective, template string) string {
	return fmt.Sprintf("# Playbook\n\n## Objective\n%s\n\n## Contextual Prompt Template\n%s\n", objective, template)
}

// ProfileSource renders a minimal valid plugin profile.
func ProfileSource(name string) string {
	return fmt.Sprintf("name: %s\nversion: 1.0.0\ndescription: Test plugin.\nmcp_profile: []\n", name)
}

// NewPlugin creates a plugin workspace with a valid profile plus files, and a
// playbook beside it. It returns the plugin directory and the playbook path.
func NewPlugin(t *testing.T, name string, files Files, template string) (pluginDir, playbookPath string) {
	t.Helper()
	base := t.TempDir()
	pluginDir = filepath.Join(base, "plugins_real", name)
	all := Files{"plugin-profile.yaml": ProfileSource(name)}
	for k, v := range files {
		all[k] = v
	}
	WriteFiles(t, pluginDir, all)

	playbookPath = filepath.Join(base, "playbooks", "playbook.md")
	WriteFiles(t, filepath.Dir(playbookPath), Files{"playbook.md": PlaybookSource("Test objective.", template)})
	return pluginDir, playbookPath
}
