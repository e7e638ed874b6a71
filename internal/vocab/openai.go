package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/merhaba/internal/breaker"
)

// OpenAIConfig configures the OpenAI generator
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies
	Breaker breaker.Settings
}

// OpenAIGenerator asks an OpenAI chat model for a JSON word list
type OpenAIGenerator struct {
	apiKey  string
	model   string
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat API
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIGenerator{
		apiKey:  cfg.APIKey,
		model:   model,
		client:  openai.NewClientWithConfig(clientConfig),
		breaker: breaker.New("openai-vocab", cfg.Breaker),
		logger:  log.WithPrefix("vocab"),
	}, nil
}

// Name returns the generator name
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate requests the words for req and validates the response
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]Word, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: `You are a Turkish teacher for Traditional Chinese speakers. Respond with a JSON object of the form {"words": [...]} where every element has exactly the string fields "turkish", "chinese", "pronunciation", "exampleSentence" and "exampleTranslation". All fields are required and must not be empty.`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	}

	g.logger.Debug("Requesting vocabulary", "model", g.model, "topic", req.Topic, "count", req.Count)

	resp, err := breaker.Do(g.breaker, func() (openai.ChatCompletionResponse, error) {
		return g.client.CreateChatCompletion(ctx, chatReq)
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrValidationFailed)
	}

	words, err := parseWordEnvelope(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Vocabulary generated", "topic", req.Topic, "words", len(words))
	return words, nil
}

// parseWordEnvelope unwraps {"words": [...]} and validates the list
func parseWordEnvelope(content string) ([]Word, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(content)))
	dec.DisallowUnknownFields()

	var envelope struct {
		Words json.RawMessage `json:"words"`
	}
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if len(envelope.Words) == 0 {
		return nil, fmt.Errorf("%w: response has no words field", ErrValidationFailed)
	}

	return Parse(string(envelope.Words))
}
