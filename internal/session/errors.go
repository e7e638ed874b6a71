package session

import "errors"

// GenerationFailedMessage is shown to the user when a lesson cannot be created.
// The underlying error is only logged.
const GenerationFailedMessage = "生成課程失敗，請稍後再試 (Connection error or Token limit)."

var (
	// ErrBusy is returned by Select outside the home view
	ErrBusy = errors.New("session busy: a lesson is loading or in progress")

	// ErrGenerationFailed wraps every vocabulary generation failure
	ErrGenerationFailed = errors.New("vocabulary generation failed")

	// ErrNothingToPlay is returned by PlayCurrent when no word is shown
	ErrNothingToPlay = errors.New("no word to play")
)
