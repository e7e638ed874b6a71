package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/merhaba/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "merhaba",
		Short: "Turkish vocabulary lessons with generated speech",
		Long: `merhaba generates beginner Turkish vocabulary lessons with
Traditional Chinese translations, shows them as flashcards followed by a
quiz, and speaks every word using Gemini or OpenAI text-to-speech.

Examples:
  merhaba                              # Launch interactive GUI (default)
  merhaba --list-categories            # Show the lesson topics
  merhaba --lesson animals             # Print a generated lesson
  merhaba -l animals --anki a.csv      # ... and save it for Anki import
  merhaba --say "Günaydın"             # Speak a Turkish phrase
  merhaba --provider openai            # Use OpenAI instead of Gemini`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(newManCommand(rootCmd))

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.merhaba.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	// Local flags
	cmd.Flags().StringVarP(&flags.Provider, "provider", "p", flags.Provider, "AI provider for lessons and speech: gemini or openai")
	cmd.Flags().BoolVar(&flags.ListCategories, "list-categories", false, "List lesson categories and exit")
	cmd.Flags().StringVarP(&flags.Lesson, "lesson", "l", "", "Generate the lesson for a category id and print it")
	cmd.Flags().StringVar(&flags.Anki, "anki", "", "With --lesson, also write the lesson to this Anki import CSV file")
	cmd.Flags().StringVarP(&flags.Say, "say", "s", "", "Speak Turkish text and exit")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", flags.Count, "Number of words per lesson")
	cmd.Flags().StringVar(&flags.Level, "level", flags.Level, "Proficiency level requested from the generator")
	cmd.Flags().BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback (auto-play is enabled by default)")
	cmd.Flags().BoolVar(&flags.Mute, "mute", false, "Synthesize speech but do not open an audio device")

	// Cache flags
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Do not cache synthesized speech")
	cmd.Flags().StringVar(&flags.CachePath, "cache-path", "", "Speech cache database (default is in the user data directory)")
	cmd.Flags().BoolVar(&flags.CacheStats, "cache-stats", false, "Show speech cache statistics and exit")
	cmd.Flags().BoolVar(&flags.ClearCache, "clear-cache", false, "Remove all cached speech and exit")

	// Gemini flags
	cmd.Flags().StringVar(&flags.GeminiTextModel, "gemini-model", flags.GeminiTextModel, "Gemini model for lesson generation")
	cmd.Flags().StringVar(&flags.GeminiTTSModel, "gemini-tts-model", flags.GeminiTTSModel, "Gemini model for speech")
	cmd.Flags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice: Kore, Puck, Charon, Aoede, ...")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAITextModel, "openai-model", flags.OpenAITextModel, "OpenAI chat model for lesson generation")
	cmd.Flags().StringVar(&flags.OpenAITTSModel, "openai-tts-model", flags.OpenAITTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("lesson.count", cmd.Flags().Lookup("count"))
	viper.BindPFlag("lesson.level", cmd.Flags().Lookup("level"))
	viper.BindPFlag("audio.mute", cmd.Flags().Lookup("mute"))
	viper.BindPFlag("cache.path", cmd.Flags().Lookup("cache-path"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", cmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("gemini.text_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("gemini.tts_model", cmd.Flags().Lookup("gemini-tts-model"))
	viper.BindPFlag("gemini.voice", cmd.Flags().Lookup("gemini-voice"))
	viper.BindPFlag("openai.text_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("openai.tts_model", cmd.Flags().Lookup("openai-tts-model"))
	viper.BindPFlag("openai.voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("openai.speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("openai.instruction", cmd.Flags().Lookup("openai-instruction"))

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("breaker.failures", 5)
	viper.SetDefault("breaker.timeout", "30s")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".merhaba" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".merhaba")
	}

	// Environment variables
	viper.SetEnvPrefix("MERHABA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	// First check environment variables
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("gemini.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}
