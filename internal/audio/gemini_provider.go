package audio

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"codeberg.org/snonux/merhaba/internal/breaker"
	"codeberg.org/snonux/merhaba/internal/gemini"
)

const audioModality = "AUDIO"

// GeminiProvider implements Provider using the Gemini speech generation model
type GeminiProvider struct {
	models  gemini.ContentGenerator
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	client, err := gemini.NewClient(ctx, config.GeminiKey)
	if err != nil {
		return nil, err
	}
	return newGeminiProvider(client.Models, config, breaker.New("gemini-tts", config.Breaker)), nil
}

func newGeminiProvider(models gemini.ContentGenerator, config *Config, cb *gobreaker.CircuitBreaker) *GeminiProvider {
	return &GeminiProvider{
		models:  models,
		config:  config,
		breaker: cb,
	}
}

// Synthesize requests audio for text. An answer without inline audio is
// returned with its text so the caller can report it.
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) (*Speech, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{audioModality},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.config.GeminiVoice},
			},
		},
	}

	log.Debug("Gemini TTS request", "model", p.config.GeminiModel, "voice", p.config.GeminiVoice, "text", text)

	resp, err := breaker.Do(p.breaker, func() (*genai.GenerateContentResponse, error) {
		return p.models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(text), config)
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	blob := gemini.InlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		speech := &Speech{Text: gemini.Text(resp)}
		if speech.Text != "" {
			log.Warn("Gemini TTS returned text instead of audio", "text", speech.Text)
		}
		return speech, nil
	}

	return &Speech{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that the provider is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
