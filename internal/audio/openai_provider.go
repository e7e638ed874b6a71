package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/merhaba/internal/breaker"
)

// OpenAIProvider implements Provider interface for OpenAI TTS.
// The "pcm" response format is 24kHz 16-bit signed little-endian mono.
type OpenAIProvider struct {
	client  *openai.Client
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		breaker: breaker.New("openai-tts", config.Breaker),
	}, nil
}

// Synthesize generates raw PCM speech using OpenAI TTS
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) (*Speech, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          p.config.OpenAISpeed,
	}

	// Add instructions for gpt-4o-mini-tts model
	if p.config.OpenAIInstruction != "" && p.config.OpenAIModel == "gpt-4o-mini-tts" {
		req.Instructions = p.config.OpenAIInstruction
	}

	log.Debug("OpenAI TTS request", "model", p.config.OpenAIModel, "voice", p.config.OpenAIVoice, "speed", p.config.OpenAISpeed)

	data, err := breaker.Do(p.breaker, func() ([]byte, error) {
		response, err := p.client.CreateSpeech(ctx, req)
		if err != nil {
			return nil, err
		}
		defer response.Close()
		return io.ReadAll(response)
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") && p.config.OpenAIModel == "gpt-4o-mini-tts" {
			return nil, fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --openai-tts-model tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}

	return &Speech{Data: data, MIMEType: "audio/pcm;rate=24000"}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is configured
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A test call would use credits, so only the key is checked
	return nil
}
