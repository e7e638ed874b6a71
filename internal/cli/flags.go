package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile        string
	Provider       string
	ListCategories bool
	Lesson         string
	Anki           string
	Say            string
	Count          int
	Level          string
	NoAutoPlay     bool
	Mute           bool
	LogLevel       string
	LogFile        string

	// Cache flags
	NoCache    bool
	CachePath  string
	CacheStats bool
	ClearCache bool

	// Gemini flags
	GeminiTextModel string
	GeminiTTSModel  string
	GeminiVoice     string

	// OpenAI flags
	OpenAITextModel   string
	OpenAITTSModel    string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider:        "gemini",
		Count:           30,
		Level:           "CEFR A1 (Absolute Beginner)",
		LogLevel:        "info",
		GeminiTextModel: "gemini-2.5-flash",
		GeminiTTSModel:  "gemini-2.5-flash-preview-tts",
		GeminiVoice:     "Kore",
		OpenAITextModel: "gpt-4o-mini",
		OpenAITTSModel:  "gpt-4o-mini-tts",
		OpenAIVoice:     "nova",
		OpenAISpeed:     1.0,
	}
}
