// Package gemini implements the model backend on Google Gemini.
package gemini

import (
	"context"

	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/config"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/provider"
	"github.com/gregberns/Model-Based-Agent-Evaluation/internal/tool"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client          GeminiClient
	model           string
	temperature     float32
	maxOutputTokens int32
	logger          *zap.Logger
}

// New creates a new GeminiProvider with the specified client and settings.
func New(client GeminiClient, cfg config.ProviderConfig, logger *zap.Logger) *GeminiProvider {
	if client == nil {
		panic("client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		client:          client,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		logger:          logger,
	}
}

// Model returns the model name requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Generate sends the full history to Gemini and converts the first part of
// the first candidate into the next turn.
func (p *GeminiProvider) Generate(ctx context.Context, history []provider.Message, tools []tool.Declaration) (provider.Message, error) {
	contents := toGeminiContents(history)
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxOutputTokens,
		SafetySettings:  defaultSafetySettings(),
		Tools:           toGeminiTools(tools),
	}

	p.logger.Debug("generate content",
		zap.String("model", p.model),
		zap.Int("history_len", len(contents)),
		zap.Int("tools", len(tools)))

	resp, err := p.client.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return provider.Message{}, mapGeminiError(err)
	}

	msg, err := fromGeminiResponse(resp)
	if err != nil {
		return provider.Message{}, err
	}
	if resp.UsageMetadata != nil {
		p.logger.Debug("usage",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("candidate_tokens", resp.UsageMetadata.CandidatesTokenCount))
	}
	return msg, nil
}
