package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/merhaba/internal/vocab"
)

func TestLoadSettingsDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "")

	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	cmd.Flags().Set("cache-path", filepath.Join(t.TempDir(), "speech.db"))

	s, err := LoadSettings(flags)
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error: %v", err)
	}

	if s.Provider != "gemini" {
		t.Errorf("Provider = %s, want gemini", s.Provider)
	}
	if s.GeminiKey != "gemini-key" || s.Audio.GeminiKey != "gemini-key" {
		t.Errorf("Gemini key not propagated: %q / %q", s.GeminiKey, s.Audio.GeminiKey)
	}
	if s.Count != vocab.DefaultCount {
		t.Errorf("Count = %d, want %d", s.Count, vocab.DefaultCount)
	}
	if !s.AutoPlay || s.Mute || !s.CacheEnabled {
		t.Errorf("Unexpected playback settings: %+v", s)
	}
	if s.Audio.GeminiVoice != "Kore" {
		t.Errorf("GeminiVoice = %s, want Kore", s.Audio.GeminiVoice)
	}
	if s.Breaker.Failures != 5 || s.Breaker.Timeout != 30*time.Second {
		t.Errorf("Unexpected breaker settings: %+v", s.Breaker)
	}
	if len(s.Categories) != len(vocab.DefaultCategories()) {
		t.Errorf("Expected default categories, got %d", len(s.Categories))
	}
}

func TestLoadSettingsFlags(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	for name, value := range map[string]string{
		"provider":     "OpenAI",
		"count":        "10",
		"no-auto-play": "true",
		"no-cache":     "true",
		"openai-voice": "shimmer",
		"cache-path":   filepath.Join(t.TempDir(), "speech.db"),
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) failed: %v", name, err)
		}
	}

	s, err := LoadSettings(flags)
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error: %v", err)
	}
	if s.Provider != "openai" || s.Audio.Provider != "openai" {
		t.Errorf("Provider = %s/%s, want openai", s.Provider, s.Audio.Provider)
	}
	if s.Count != 10 {
		t.Errorf("Count = %d, want 10", s.Count)
	}
	if s.AutoPlay {
		t.Error("Expected auto-play to be disabled")
	}
	if s.CacheEnabled {
		t.Error("Expected cache to be disabled")
	}
	if s.Audio.OpenAIVoice != "shimmer" {
		t.Errorf("OpenAIVoice = %s, want shimmer", s.Audio.OpenAIVoice)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name   string
		flag   string
		value  string
		errMsg string
	}{
		{"unknown provider", "provider", "espeak", "unknown provider"},
		{"zero count", "count", "0", "lesson count must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			flags := NewFlags()
			cmd := CreateRootCommand(flags)
			cmd.Flags().Set(tt.flag, tt.value)

			_, err := LoadSettings(flags)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("LoadSettings() error = %v, want %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadCategoriesFromConfig(t *testing.T) {
	resetViper(t)

	cfgPath := filepath.Join(t.TempDir(), "merhaba.yaml")
	content := `categories:
  - id: coffee
    label: 咖啡 (Coffee)
    emoji: "☕"
    prompt_topic: A1 level coffee house vocabulary
  - id: market
    label: 市場 (Market)
    emoji: "🛒"
    prompt_topic: A1 level market vocabulary
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	InitConfig(cfgPath)

	categories, err := LoadCategories()
	if err != nil {
		t.Fatalf("LoadCategories() unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].ID != "coffee" || categories[0].PromptTopic != "A1 level coffee house vocabulary" {
		t.Errorf("Unexpected category: %+v", categories[0])
	}
}

func TestLoadCategoriesInvalid(t *testing.T) {
	resetViper(t)
	viper.Set("categories", []map[string]any{{"id": "x"}})

	if _, err := LoadCategories(); err == nil || !strings.Contains(err.Error(), "invalid categories") {
		t.Errorf("Expected invalid categories error, got %v", err)
	}
}

func TestDefaultCachePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path, err := DefaultCachePath()
	if err != nil {
		t.Fatalf("DefaultCachePath() unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("merhaba", "speech.db")) {
		t.Errorf("Unexpected cache path %s", path)
	}
}
