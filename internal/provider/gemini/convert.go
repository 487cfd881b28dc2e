package gemini

import (
	"errors"
	"fmt"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"google.golang.org/genai"
)

// toGeminiContents converts history to Gemini Content format, one content per turn.
func toGeminiContents(history []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, messageToGeminiContent(msg))
	}
	return contents
}

// messageToGeminiContent converts a single turn. Tool results are wrapped as
// {"result": <string>}.
func messageToGeminiContent(msg provider.Message) *genai.Content {
	var part *genai.Part
	switch {
	case msg.ToolCall != nil:
		part = &genai.Part{FunctionCall: &genai.FunctionCall{
			Name: msg.ToolCall.Name,
			Args: msg.ToolCall.Args,
		}}
	case msg.ToolResult != nil:
		part = &genai.Part{FunctionResponse: &genai.FunctionResponse{
			Name:     msg.ToolResult.Name,
			Response: map[string]any{"result": msg.ToolResult.Result},
		}}
	default:
		part = genai.NewPartFromText(msg.Text)
	}

	return &genai.Content{
		Role:  string(msg.Role),
		Parts: []*genai.Part{part},
	}
}

// defaultSafetySettings turns off blocking for all categories; the agent
// routinely handles shell commands and source code.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdOff},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdOff},
	}
}

// toGeminiTools converts tool declarations to a single Gemini tool.
func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}

	functionDeclarations := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.Parameters != nil {
			fd.Parameters = toGeminiSchema(d.Parameters)
		}
		functionDeclarations = append(functionDeclarations, fd)
	}

	return []*genai.Tool{{FunctionDeclarations: functionDeclarations}}
}

// toGeminiSchema converts a tool schema, recursing into properties and items.
func toGeminiSchema(s *tool.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Enum) > 0 {
		schema.Enum = s.Enum
	}
	if len(s.Required) > 0 {
		schema.Required = s.Required
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
	}
	return schema
}

// toGeminiType converts a schema type to Gemini Type.
func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeString:
		return genai.TypeString
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts the first part of the first candidate. Only
// that part is considered; a candidate without parts yields empty text.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (provider.Message, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return provider.Message{}, &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return provider.Message{}, &provider.ProviderError{
			Code:    provider.ErrorCodeContentBlocked,
			Message: "content blocked by safety filters",
		}
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0] == nil {
		return provider.ModelText(""), nil
	}

	part := candidate.Content.Parts[0]
	if part.FunctionCall != nil {
		args := part.FunctionCall.Args
		if args == nil {
			args = map[string]any{}
		}
		return provider.ModelToolCall(part.FunctionCall.Name, args), nil
	}
	return provider.ModelText(part.Text), nil
}

// asAPIError finds a Gemini API error in err's chain.
func asAPIError(err error) (*genai.APIError, bool) {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}
	return nil, false
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	switch apiErr.Code {
	case 401, 403:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case 429:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
		}
	case 400:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	case 500, 502, 503, 504:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
			Retryable:  true,
		}
	}
}
