// Package provider defines the conversation history and the model backend contract.
package provider

import (
	"context"
	"maps"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ToolCall is a model request to invoke a tool.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult is the string a tool returned, sent back to the model.
type ToolResult struct {
	Name   string
	Result string
}

// Message is one turn of conversation history. Exactly one of Text, ToolCall
// or ToolResult is meaningful; ToolCall and ToolResult take precedence when set.
type Message struct {
	Role       Role
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// UserText returns a user turn carrying text.
func UserText(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// ModelText returns a model turn carrying text.
func ModelText(text string) Message {
	return Message{Role: RoleModel, Text: text}
}

// ModelToolCall returns a model turn requesting a tool call.
func ModelToolCall(name string, args map[string]any) Message {
	return Message{Role: RoleModel, ToolCall: &ToolCall{Name: name, Args: args}}
}

// ToolResultMessage returns the user turn that answers a tool call.
func ToolResultMessage(name, result string) Message {
	return Message{Role: RoleUser, ToolResult: &ToolResult{Name: name, Result: result}}
}

// IsToolCall reports whether the turn requests a tool call.
func (m Message) IsToolCall() bool {
	return m.ToolCall != nil
}

// Clone returns a copy that shares no maps or pointers with m.
func (m Message) Clone() Message {
	if m.ToolCall != nil {
		tc := *m.ToolCall
		tc.Args = maps.Clone(tc.Args)
		m.ToolCall = &tc
	}
	if m.ToolResult != nil {
		tr := *m.ToolResult
		m.ToolResult = &tr
	}
	return m
}

// Provider is a model backend. Generate receives the full history and the
// available tool declarations and returns the next model turn.
type Provider interface {
	Generate(ctx context.Context, history []Message, tools []tool.Declaration) (Message, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, history []Message, tools []tool.Declaration) (Message, error)

func (f ProviderFunc) Generate(ctx context.Context, history []Message, tools []tool.Declaration) (Message, error) {
	return f(ctx, history, tools)
}
