// Package gemini holds the shared Google Gemini client setup used by the
// vocabulary generator and the speech synthesizer.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ContentGenerator is the subset of genai.Models the application calls.
// *genai.Models satisfies it; tests substitute canned responses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini API client for the given key
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// FirstParts returns the parts of the first candidate, or nil
func FirstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}

// Text concatenates the text parts of the first candidate
func Text(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, p := range FirstParts(resp) {
		if p != nil && p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// InlineData returns the first inline blob of the first candidate, or nil
func InlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, p := range FirstParts(resp) {
		if p != nil && p.InlineData != nil {
			return p.InlineData
		}
	}
	return nil
}
