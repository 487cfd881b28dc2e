package observe

import (
	"context"
	"errors"
	"testing"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/event"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	result string
	err    error
	calls  int
}

func (s *stubTool) Name() string                  { return s.name }
func (s *stubTool) Declaration() tool.Declaration { return tool.Declaration{Name: s.name} }
func (s *stubTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	s.calls++
	return s.result, s.err
}

type record struct {
	name event.Name
	ev   event.ToolEvent
}

func capture(bus *event.ToolBus) *[]record {
	var recs []record
	for _, name := range event.ToolNames {
		bus.Subscribe(name, func(ev event.ToolEvent) {
			recs = append(recs, record{name: name, ev: ev})
		})
	}
	return &recs
}

func TestWrap_Success_PublishesRequestedThenCompleted(t *testing.T) {
	bus := event.NewToolBus()
	recs := capture(bus)
	inner := &stubTool{name: "read_file", result: "contents"}

	out, err := Wrap(inner, bus, WithRunID("run-1")).Execute(context.Background(), map[string]any{"path": "a.txt"})

	require.NoError(t, err)
	assert.Equal(t, "contents", out)
	require.Len(t, *recs, 2)
	assert.Equal(t, event.ToolRequested, (*recs)[0].name)
	assert.Equal(t, event.ToolEvent{RunID: "run-1", Name: "read_file", Args: map[string]any{"path": "a.txt"}}, (*recs)[0].ev)
	assert.Equal(t, event.ToolCompleted, (*recs)[1].name)
	assert.Equal(t, "contents", (*recs)[1].ev.Result)
	assert.Empty(t, (*recs)[1].ev.Error)
}

func TestWrap_Failure_PublishesFailedAndReturnsErrorUnchanged(t *testing.T) {
	bus := event.NewToolBus()
	recs := capture(bus)
	boom := errors.New("boom")

	_, err := Wrap(&stubTool{name: "read_file", err: boom}, bus).Execute(context.Background(), map[string]any{})

	assert.Same(t, boom, err)
	require.Len(t, *recs, 2)
	assert.Equal(t, event.ToolFailed, (*recs)[1].name)
	assert.Equal(t, "boom", (*recs)[1].ev.Error)
}

func TestWrap_PreservesIdentity(t *testing.T) {
	inner := &stubTool{name: "list_files"}
	w := Wrap(inner, event.NewToolBus())

	assert.Equal(t, "list_files", w.Name())
	assert.Equal(t, inner.Declaration(), w.Declaration())
	assert.Same(t, inner, w.Unwrap())
}

func TestWrap_ListenerMutation_DoesNotLeakIntoCall(t *testing.T) {
	bus := event.NewToolBus()
	bus.Subscribe(event.ToolRequested, func(ev event.ToolEvent) { ev.Args["path"] = "tampered" })
	args := map[string]any{"path": "a.txt"}

	_, err := Wrap(&stubTool{name: "read_file"}, bus).Execute(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, "a.txt", args["path"])
}

func TestWrap_HITL(t *testing.T) {
	approve := ConfirmFunc(func(context.Context, string, map[string]any) (bool, error) { return true, nil })
	reject := ConfirmFunc(func(context.Context, string, map[string]any) (bool, error) { return false, nil })

	t.Run("rejected destructive tool is not invoked", func(t *testing.T) {
		bus := event.NewToolBus()
		recs := capture(bus)
		inner := &stubTool{name: "execute_shell_command"}

		_, err := Wrap(inner, bus, WithConfirmer(reject)).Execute(context.Background(), map[string]any{"command": "rm -rf /"})

		assert.ErrorIs(t, err, ErrRejected)
		assert.Zero(t, inner.calls)
		require.Len(t, *recs, 2)
		assert.Equal(t, event.ToolRequested, (*recs)[0].name)
		assert.Equal(t, event.ToolFailed, (*recs)[1].name)
		assert.Equal(t, "tool execution rejected by user", (*recs)[1].ev.Error)
	})

	t.Run("approved destructive tool runs", func(t *testing.T) {
		inner := &stubTool{name: "edit_file", result: "ok"}

		out, err := Wrap(inner, event.NewToolBus(), WithConfirmer(approve)).Execute(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("non-destructive tool skips confirmation", func(t *testing.T) {
		inner := &stubTool{name: "read_file"}

		_, err := Wrap(inner, event.NewToolBus(), WithConfirmer(reject)).Execute(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("custom destructive set", func(t *testing.T) {
		inner := &stubTool{name: "write_file"}

		_, err := Wrap(inner, event.NewToolBus(), WithConfirmer(reject), WithDestructive("write_file")).
			Execute(context.Background(), nil)

		assert.ErrorIs(t, err, ErrRejected)
		assert.Zero(t, inner.calls)
	})

	t.Run("confirmer error surfaces as failure", func(t *testing.T) {
		bus := event.NewToolBus()
		recs := capture(bus)
		broken := ConfirmFunc(func(context.Context, string, map[string]any) (bool, error) {
			return false, context.Canceled
		})

		_, err := Wrap(&stubTool{name: "edit_file"}, bus, WithConfirmer(broken)).Execute(context.Background(), nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, event.ToolFailed, (*recs)[len(*recs)-1].name)
	})
}

func TestWrapAll_KeepsOrder(t *testing.T) {
	tools := WrapAll([]tool.Tool{&stubTool{name: "a"}, &stubTool{name: "b"}}, event.NewToolBus())

	require.Len(t, tools, 2)
	assert.Equal(t, "a", tools[0].Name())
	assert.Equal(t, "b", tools[1].Name())
}
