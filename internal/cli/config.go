package cli

import (
	"fmt"
	"strings"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/breaker"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

// Settings is the configuration resolved from flags, config file and
// environment
type Settings struct {
	Provider        string
	GeminiKey       string
	GeminiTextModel string
	OpenAIKey       string
	OpenAITextModel string

	Audio   *audio.Config
	Breaker breaker.Settings

	Count    int
	Level    string
	AutoPlay bool
	Mute     bool

	CacheEnabled bool
	CachePath    string

	LogLevel string
	LogFile  string

	Categories []vocab.Category
}

// LoadSettings resolves the settings. Flags must already be bound to viper.
func LoadSettings(flags *Flags) (*Settings, error) {
	provider := strings.ToLower(viper.GetString("provider"))
	if provider == "" {
		provider = "gemini"
	}
	if provider != "gemini" && provider != "openai" {
		return nil, fmt.Errorf("unknown provider %q (use gemini or openai)", provider)
	}

	count := viper.GetInt("lesson.count")
	if count <= 0 {
		return nil, fmt.Errorf("lesson count must be positive, got %d", count)
	}

	categories, err := LoadCategories()
	if err != nil {
		return nil, err
	}

	breakerSettings := breaker.DefaultSettings()
	if n := viper.GetUint32("breaker.failures"); n > 0 {
		breakerSettings.Failures = n
	}
	if d := viper.GetDuration("breaker.timeout"); d > 0 {
		breakerSettings.Timeout = d
	}

	s := &Settings{
		Provider:        provider,
		GeminiKey:       GetGeminiKey(),
		GeminiTextModel: viper.GetString("gemini.text_model"),
		OpenAIKey:       GetOpenAIKey(),
		OpenAITextModel: viper.GetString("openai.text_model"),
		Breaker:         breakerSettings,
		Count:           count,
		Level:           viper.GetString("lesson.level"),
		AutoPlay:        !flags.NoAutoPlay,
		Mute:            viper.GetBool("audio.mute"),
		CacheEnabled:    viper.GetBool("cache.enabled") && !flags.NoCache,
		CachePath:       viper.GetString("cache.path"),
		LogLevel:        viper.GetString("log.level"),
		LogFile:         viper.GetString("log.file"),
		Categories:      categories,
	}

	audioConfig := audio.DefaultProviderConfig()
	audioConfig.Provider = provider
	audioConfig.GeminiKey = s.GeminiKey
	audioConfig.OpenAIKey = s.OpenAIKey
	audioConfig.Breaker = breakerSettings
	if v := viper.GetString("gemini.tts_model"); v != "" {
		audioConfig.GeminiModel = v
	}
	if v := viper.GetString("gemini.voice"); v != "" {
		audioConfig.GeminiVoice = v
	}
	if v := viper.GetString("openai.tts_model"); v != "" {
		audioConfig.OpenAIModel = v
	}
	if v := viper.GetString("openai.voice"); v != "" {
		audioConfig.OpenAIVoice = v
	}
	if v := viper.GetFloat64("openai.speed"); v > 0 {
		audioConfig.OpenAISpeed = v
	}
	if v := viper.GetString("openai.instruction"); v != "" {
		audioConfig.OpenAIInstruction = v
	}
	if v := viper.GetString("openai.base_url"); v != "" {
		audioConfig.OpenAIBaseURL = v
	}
	s.Audio = audioConfig

	if s.CachePath == "" {
		path, err := DefaultCachePath()
		if err != nil {
			return nil, err
		}
		s.CachePath = path
	}

	return s, nil
}

// LoadCategories returns the configured categories, or the built-in ones
func LoadCategories() ([]vocab.Category, error) {
	if !viper.IsSet("categories") {
		return vocab.DefaultCategories(), nil
	}

	var categories []vocab.Category
	if err := viper.UnmarshalKey("categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	if err := vocab.ValidateCategories(categories); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}
	return categories, nil
}

// DefaultCachePath returns the speech cache location in the user data directory
func DefaultCachePath() (string, error) {
	scope := gap.NewScope(gap.User, "merhaba")
	path, err := scope.DataPath("speech.db")
	if err != nil {
		return "", fmt.Errorf("could not find data directory: %w", err)
	}
	return path, nil
}
