package audio

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

func partsResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func TestGeminiSynthesize(t *testing.T) {
	pcm := EncodeInt16([]int16{1, 2, 3, 4})
	models := &fakeModels{resp: partsResponse(&genai.Part{
		InlineData: &genai.Blob{Data: pcm, MIMEType: "audio/L16;codec=pcm;rate=24000"},
	})}
	p := newGeminiProvider(models, DefaultProviderConfig(), nil)

	speech, err := p.Synthesize(context.Background(), "merhaba")
	if err != nil {
		t.Fatalf("Synthesize() unexpected error: %v", err)
	}
	if len(speech.Data) != len(pcm) {
		t.Errorf("Expected %d bytes, got %d", len(pcm), len(speech.Data))
	}
	if models.model != "gemini-2.5-flash-preview-tts" {
		t.Errorf("Unexpected model %s", models.model)
	}
	if len(models.config.ResponseModalities) != 1 || models.config.ResponseModalities[0] != "AUDIO" {
		t.Errorf("Expected AUDIO modality, got %v", models.config.ResponseModalities)
	}
	voice := models.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName
	if voice != "Kore" {
		t.Errorf("Expected voice Kore, got %s", voice)
	}
}

func TestGeminiSynthesizeTextOnly(t *testing.T) {
	models := &fakeModels{resp: partsResponse(&genai.Part{Text: "Sorry"})}
	p := newGeminiProvider(models, DefaultProviderConfig(), nil)

	speech, err := p.Synthesize(context.Background(), "merhaba")
	if err != nil {
		t.Fatalf("Synthesize() unexpected error: %v", err)
	}
	if speech.Text != "Sorry" || len(speech.Data) != 0 {
		t.Errorf("Unexpected speech %+v", speech)
	}

	if _, err := speech.Buffer(); !errors.Is(err, ErrTextInsteadOfAudio) {
		t.Errorf("Expected ErrTextInsteadOfAudio, got %v", err)
	}
}

func TestGeminiSynthesizeAPIError(t *testing.T) {
	models := &fakeModels{err: errors.New("quota exceeded")}
	p := newGeminiProvider(models, DefaultProviderConfig(), nil)

	if _, err := p.Synthesize(context.Background(), "merhaba"); err == nil {
		t.Fatal("Expected error")
	}
	if models.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", models.calls)
	}
}

func TestGeminiProviderIntegration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	config := DefaultProviderConfig()
	config.GeminiKey = apiKey

	p, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() error: %v", err)
	}

	speech, err := p.Synthesize(context.Background(), "Merhaba")
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if _, err := speech.Buffer(); err != nil {
		t.Errorf("Buffer() error: %v", err)
	}
}
