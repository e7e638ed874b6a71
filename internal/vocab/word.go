package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultCount is the number of words requested per lesson
	DefaultCount = 30
	// DefaultLevel is the proficiency level requested per lesson
	DefaultLevel = "CEFR A1 (Absolute Beginner)"
)

// ErrValidationFailed is returned when a generation response does not match
// the word schema
var ErrValidationFailed = errors.New("vocabulary validation failed")

// Word is a single vocabulary entry. All fields are required.
type Word struct {
	Turkish            string `json:"turkish"`
	Chinese            string `json:"chinese"`
	Pronunciation      string `json:"pronunciation"`
	ExampleSentence    string `json:"exampleSentence"`
	ExampleTranslation string `json:"exampleTranslation"`
}

// Request describes one lesson generation call
type Request struct {
	Topic string
	Count int
	Level string
}

// NewRequest creates a request for topic with the default count and level
func NewRequest(topic string) Request {
	return Request{
		Topic: topic,
		Count: DefaultCount,
		Level: DefaultLevel,
	}
}

// Generator produces the vocabulary list for a lesson
type Generator interface {
	// Generate returns the validated words for the request
	Generate(ctx context.Context, req Request) ([]Word, error)

	// Name returns the generator name
	Name() string
}

// Validate checks that words is non-empty and every field of every word is set
func Validate(words []Word) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: no words returned", ErrValidationFailed)
	}

	for i, w := range words {
		fields := []struct {
			name  string
			value string
		}{
			{"turkish", w.Turkish},
			{"chinese", w.Chinese},
			{"pronunciation", w.Pronunciation},
			{"exampleSentence", w.ExampleSentence},
			{"exampleTranslation", w.ExampleTranslation},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				return fmt.Errorf("%w: word %d is missing %s", ErrValidationFailed, i, f.name)
			}
		}
	}

	return nil
}

// Parse decodes a JSON array of words and validates it.
// Unknown fields are rejected so a schema drift is noticed.
func Parse(data string) ([]Word, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty response", ErrValidationFailed)
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()

	var words []Word
	if err := dec.Decode(&words); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := Validate(words); err != nil {
		return nil, err
	}

	return trimWords(words), nil
}

func trimWords(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		out[i] = Word{
			Turkish:            strings.TrimSpace(w.Turkish),
			Chinese:            strings.TrimSpace(w.Chinese),
			Pronunciation:      strings.TrimSpace(w.Pronunciation),
			ExampleSentence:    strings.TrimSpace(w.ExampleSentence),
			ExampleTranslation: strings.TrimSpace(w.ExampleTranslation),
		}
	}
	return out
}
