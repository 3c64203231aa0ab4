package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Quokka/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// LLMBackend is the text-in/text-out generation collaborator. Failures are
// treated as transient (network/quota) and retried by the caller.
type LLMBackend interface {
	Complete(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type geminiBackend struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiBackend(cfg *config.Config) (LLMBackend, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Quiz generation will be non-functional.")
		return &geminiBackend{cfg: cfg, client: nil}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiBackend{client: model, cfg: cfg}, nil
}

func (b *geminiBackend) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	b.client.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	resp, err := b.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	reply := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply += string(txt)
		}
	}
	if reply == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return reply, nil
}
