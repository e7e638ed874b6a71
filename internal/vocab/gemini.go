package vocab

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/merhaba/internal/breaker"
	"codeberg.org/snonux/merhaba/internal/gemini"
)

// DefaultGeminiModel is the text model used for lesson generation
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini generator
type GeminiConfig struct {
	APIKey  string
	Model   string
	Breaker breaker.Settings
}

// GeminiGenerator asks Gemini for a JSON word list constrained by a response schema
type GeminiGenerator struct {
	models  gemini.ContentGenerator
	model   string
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
}

// NewGeminiGenerator creates a generator backed by the Gemini API
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	client, err := gemini.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return newGeminiGenerator(client.Models, cfg.Model, breaker.New("gemini-vocab", cfg.Breaker)), nil
}

func newGeminiGenerator(models gemini.ContentGenerator, model string, cb *gobreaker.CircuitBreaker) *GeminiGenerator {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{
		models:  models,
		model:   model,
		breaker: cb,
		logger:  log.WithPrefix("vocab"),
	}
}

// Name returns the generator name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate requests the words for req and validates the response
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) ([]Word, error) {
	prompt := BuildPrompt(req)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   wordListSchema(),
	}

	g.logger.Debug("Requesting vocabulary", "model", g.model, "topic", req.Topic, "count", req.Count)

	resp, err := breaker.Do(g.breaker, func() (*genai.GenerateContentResponse, error) {
		return g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	text := gemini.Text(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: no data returned from Gemini", ErrValidationFailed)
	}

	words, err := Parse(text)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Vocabulary generated", "topic", req.Topic, "words", len(words))
	return words, nil
}

var wordFields = []string{"turkish", "chinese", "pronunciation", "exampleSentence", "exampleTranslation"}

// wordListSchema describes an array of Word objects with all fields required
func wordListSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(wordFields))
	for _, f := range wordFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         wordFields,
			PropertyOrdering: wordFields,
		},
	}
}
