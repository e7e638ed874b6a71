package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if rf, ok := req["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
			t.Errorf("Expected json_object response format, got %v", req["response_format"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestNewOpenAIGenerator(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIConfig{}); err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("Expected missing key error, got %v", err)
	}

	gen, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator() unexpected error: %v", err)
	}
	if gen.Name() != "openai" {
		t.Errorf("Name() = %s, want openai", gen.Name())
	}
	if gen.model != "gpt-4o-mini" {
		t.Errorf("Expected default model gpt-4o-mini, got %s", gen.model)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	content := `{"words":[{"turkish":"anne","chinese":"媽媽","pronunciation":"an-ne","exampleSentence":"Anne gel.","exampleTranslation":"媽媽，來。"}]}`
	srv := chatServer(t, http.StatusOK, content)
	defer srv.Close()

	gen, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}

	words, err := gen.Generate(context.Background(), NewRequest("family"))
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(words) != 1 || words[0].Chinese != "媽媽" {
		t.Errorf("Unexpected words: %+v", words)
	}
}

func TestOpenAIGenerateFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		content    string
		validation bool
	}{
		{"http error", http.StatusTooManyRequests, "", false},
		{"bare array", http.StatusOK, `[]`, true},
		{"no words field", http.StatusOK, `{"items":[]}`, true},
		{"empty words", http.StatusOK, `{"words":[]}`, true},
		{"incomplete word", http.StatusOK, `{"words":[{"turkish":"anne"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.status, tt.content)
			defer srv.Close()

			gen, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
			if err != nil {
				t.Fatal(err)
			}

			_, err = gen.Generate(context.Background(), NewRequest("family"))
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.Is(err, ErrValidationFailed) != tt.validation {
				t.Errorf("validation = %v, want %v (err=%v)", errors.Is(err, ErrValidationFailed), tt.validation, err)
			}
		})
	}
}
