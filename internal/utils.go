package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Version is the application version shown in the window title and --version
const Version = "0.3.0"

// SpeechCacheKey creates a stable key for synthesized speech.
// Format: md5(provider|model|voice|text)
func SpeechCacheKey(provider, model, voice, text string) string {
	h := md5.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", provider, model, voice, strings.TrimSpace(text))
	return hex.EncodeToString(h.Sum(nil))
}
