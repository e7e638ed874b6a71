package audio

import (
	"context"
	"fmt"
	"mime"
	"strconv"

	"codeberg.org/snonux/merhaba/internal/breaker"
)

// Speech is the raw result of one synthesis call
type Speech struct {
	Data     []byte // 16-bit little-endian PCM, mono
	MIMEType string
	Text     string // text the model returned instead of audio, if any
}

// Buffer validates the payload and decodes it into a playable buffer
func (s *Speech) Buffer() (*Buffer, error) {
	if s == nil {
		return nil, playbackError("decode", ErrNoAudio)
	}
	if len(s.Data) == 0 {
		if s.Text != "" {
			return nil, playbackError("decode", fmt.Errorf("%w: %q", ErrTextInsteadOfAudio, s.Text))
		}
		return nil, playbackError("decode", ErrNoAudio)
	}

	if rate, ok := mimeRate(s.MIMEType); ok && rate != SampleRate {
		return nil, playbackError("decode", fmt.Errorf("%w: unexpected sample rate %d", ErrMalformedPCM, rate))
	}

	samples, err := Decode(s.Data)
	if err != nil {
		return nil, err
	}
	return NewBuffer(samples, SampleRate), nil
}

// mimeRate extracts the rate parameter of e.g. "audio/L16;codec=pcm;rate=24000"
func mimeRate(mimeType string) (int, bool) {
	if mimeType == "" {
		return 0, false
	}
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return 0, false
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil {
		return 0, false
	}
	return rate, true
}

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize returns raw PCM speech for text
	Synthesize(ctx context.Context, text string) (*Speech, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "gemini" or "openai"

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string // prebuilt voice, e.g. "Kore"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "nova", "shimmer", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model
	OpenAIBaseURL     string

	Breaker breaker.Settings
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "gemini",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking Turkish (Türkçe). Pronounce the text with authentic Turkish phonetics. Speak slowly and clearly for beginners.",
		Breaker:           breaker.DefaultSettings(),
	}
}

// ModelAndVoice returns the model and voice of the selected provider
func (c *Config) ModelAndVoice() (string, string) {
	if c.Provider == "openai" {
		return c.OpenAIModel, c.OpenAIVoice
	}
	return c.GeminiModel, c.GeminiVoice
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
