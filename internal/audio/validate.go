package audio

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSpeechRunes limits a single synthesis request
const MaxSpeechRunes = 500

// ValidateSpeechText validates that text can be sent for synthesis
func ValidateSpeechText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if n := utf8.RuneCountInString(text); n > MaxSpeechRunes {
		return fmt.Errorf("text too long: %d characters (max %d)", n, MaxSpeechRunes)
	}

	return nil
}
