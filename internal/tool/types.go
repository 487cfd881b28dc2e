package tool

import (
	"context"
)

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Tool is a capability the agent can invoke.
//
// Expected failures (missing file, non-zero exit, timeout) are reported in the
// returned string so the model can read them. A non-nil error means the call
// itself was malformed or the tool was prevented from running.
type Tool interface {
	// Name returns the identifier the model uses to call the tool.
	Name() string

	// Declaration returns the tool's schema for the LLM.
	Declaration() Declaration

	// Execute runs the tool with the arguments supplied by the model.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Declarations collects the declarations of tools in order.
func Declarations(tools []Tool) []Declaration {
	decls := make([]Declaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, t.Declaration())
	}
	return decls
}
