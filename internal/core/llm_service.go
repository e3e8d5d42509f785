package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModelName = "gemini-1.5-flash-latest"

// Gateway defaults applied when the request omits generation parameters.
const (
	defaultMaxTokens   = int32(1024)
	defaultTemperature = float32(0.6)
	defaultTopP        = float32(0.9)
	defaultTopK        = int32(50)
)

// ErrGateway indicates the completion call failed or timed out. It is
// surfaced as-is and never retried automatically.
var ErrGateway = errors.New("llm gateway error")

// GenerationOptions are per-request overrides for the completion call.
// Nil fields use the gateway defaults.
type GenerationOptions struct {
	MaxTokens   *int32   `json:"max_tokens"`
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	TopK        *int32   `json:"top_k"`
}

// Completer is the opaque text-completion contract: a full completion or
// an error, nothing in between.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

type LLMService struct {
	client  *genai.Client
	timeout time.Duration
}

// NewLLMService constructs the Gemini-backed gateway. Credentials come in
// explicitly; nothing here reads the environment.
func NewLLMService(ctx context.Context, apiKey string, timeout time.Duration) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{client: client, timeout: timeout}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (s *LLMService) Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.client.GenerativeModel(defaultModelName)

	maxTokens := defaultMaxTokens
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}
	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	topP := defaultTopP
	if opts.TopP != nil {
		topP = *opts.TopP
	}
	topK := defaultTopK
	if opts.TopK != nil {
		topK = *opts.TopK
	}

	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrGateway)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			log.Printf("Completion part was not text: %T", part)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("%w: completion contained no text", ErrGateway)
	}
	return text.String(), nil
}
