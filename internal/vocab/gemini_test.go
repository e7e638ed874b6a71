package vocab

import (
	"context"
	"errors"
	"os"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	calls  int
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestGeminiGenerate(t *testing.T) {
	models := &fakeModels{resp: textResponse(`[{"turkish":"kedi","chinese":"貓","pronunciation":"ke-di","exampleSentence":"Kedi uyur.","exampleTranslation":"貓在睡覺。"}]`)}
	gen := newGeminiGenerator(models, "", nil)

	words, err := gen.Generate(context.Background(), NewRequest("animals"))
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(words) != 1 || words[0].Turkish != "kedi" {
		t.Errorf("Unexpected words: %+v", words)
	}

	if models.model != DefaultGeminiModel {
		t.Errorf("Expected model %s, got %s", DefaultGeminiModel, models.model)
	}
	if models.config.ResponseMIMEType != "application/json" {
		t.Errorf("Expected JSON response MIME type, got %q", models.config.ResponseMIMEType)
	}
	if models.config.ResponseSchema == nil || models.config.ResponseSchema.Items == nil {
		t.Fatal("Expected response schema with items")
	}
	if len(models.config.ResponseSchema.Items.Required) != 5 {
		t.Errorf("Expected 5 required fields, got %v", models.config.ResponseSchema.Items.Required)
	}
	if gen.Name() != "gemini" {
		t.Errorf("Name() = %s, want gemini", gen.Name())
	}
}

func TestGeminiGenerateFailures(t *testing.T) {
	netErr := errors.New("connection reset")

	tests := []struct {
		name       string
		models     *fakeModels
		validation bool
	}{
		{"api error", &fakeModels{err: netErr}, false},
		{"no candidates", &fakeModels{resp: &genai.GenerateContentResponse{}}, true},
		{"malformed json", &fakeModels{resp: textResponse(`[{"turkish":`)}, true},
		{"zero words", &fakeModels{resp: textResponse(`[]`)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newGeminiGenerator(tt.models, "gemini-test", nil)
			_, err := gen.Generate(context.Background(), NewRequest("x"))
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, ErrValidationFailed) != tt.validation {
				t.Errorf("errors.Is(ErrValidationFailed) = %v, want %v (err=%v)", !tt.validation, tt.validation, err)
			}
		})
	}
}

func TestNewGeminiGeneratorNoKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), GeminiConfig{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestGeminiGenerate_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	gen, err := NewGeminiGenerator(context.Background(), GeminiConfig{APIKey: apiKey})
	if err != nil {
		t.Fatalf("NewGeminiGenerator failed: %v", err)
	}

	req := NewRequest(DefaultCategories()[0].PromptTopic)
	req.Count = 5
	words, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	t.Logf("Generated %d words, first: %+v", len(words), words[0])
}
