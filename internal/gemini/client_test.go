package gemini

import (
	"context"
	"os"
	"testing"

	"google.golang.org/genai"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if err.Error() != "Gemini API key is required" {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewClient_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	client, err := NewClient(context.Background(), apiKey)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Models == nil {
		t.Error("Expected Models service to be initialized")
	}
}

func TestResponseHelpers(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role: "model",
					Parts: []*genai.Part{
						{Text: "thinking...", Thought: true},
						{Text: "[{\"turkish\":"},
						{Text: "\"su\"}]"},
						{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: []byte{1, 0}}},
					},
				},
			},
		},
	}

	if got := Text(resp); got != `[{"turkish":"su"}]` {
		t.Errorf("Text() = %q", got)
	}

	blob := InlineData(resp)
	if blob == nil || len(blob.Data) != 2 {
		t.Fatalf("InlineData() = %+v", blob)
	}
}

func TestResponseHelpersEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Text(tt.resp) != "" {
				t.Error("Expected empty text")
			}
			if InlineData(tt.resp) != nil {
				t.Error("Expected nil inline data")
			}
		})
	}
}
