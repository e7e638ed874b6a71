package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaybackFailed matches every error returned by Pipeline.Speak
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrNoAudio means the provider returned no audio payload
	ErrNoAudio = errors.New("no audio data received")

	// ErrTextInsteadOfAudio means the model answered with text rather than audio
	ErrTextInsteadOfAudio = errors.New("received text response instead of audio")

	// ErrMalformedPCM means the payload is not valid 16-bit PCM
	ErrMalformedPCM = errors.New("malformed PCM payload")
)

// PlaybackError records the pipeline stage that failed
type PlaybackError struct {
	Op  string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed during %s: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPlaybackFailed) true for every PlaybackError
func (e *PlaybackError) Is(target error) bool {
	return target == ErrPlaybackFailed
}

// playbackError wraps err for op unless it already is a PlaybackError
func playbackError(op string, err error) error {
	var pe *PlaybackError
	if errors.As(err, &pe) {
		return err
	}
	return &PlaybackError{Op: op, Err: err}
}
