package audio

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Policy decides what Speak does with a failure
type Policy int

const (
	// Silent logs the failure and reports success. Used for automatic playback.
	Silent Policy = iota
	// Surface returns the failure to the caller. Used for explicit requests.
	Surface
)

func (p Policy) String() string {
	switch p {
	case Silent:
		return "silent"
	case Surface:
		return "surface"
	default:
		return "unknown"
	}
}

// Pipeline turns text into sound on the shared output device.
// Concurrent Speak calls each start their own playback; nothing is queued
// or cancelled.
type Pipeline struct {
	provider Provider
	device   func() (Device, error)
	logger   *log.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithDevice replaces the shared oto device accessor
func WithDevice(source func() (Device, error)) Option {
	return func(p *Pipeline) {
		p.device = source
	}
}

// WithLogger sets the logger used for silent failures
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline speaking through provider
func NewPipeline(provider Provider, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider: provider,
		device:   SharedDevice,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Speak synthesizes text and starts playing it. It returns once playback
// has started. Every returned error matches ErrPlaybackFailed.
func (p *Pipeline) Speak(ctx context.Context, text string, policy Policy) error {
	start := time.Now()
	err := p.speak(ctx, text)
	if err == nil {
		p.logger.Debug("Playback started", "text", text, "elapsed", time.Since(start))
		return nil
	}

	if policy == Surface {
		return err
	}
	if errors.Is(err, context.Canceled) {
		p.logger.Debug("Playback cancelled", "text", text)
		return nil
	}
	p.logger.Warn("Audio playback failed", "text", text, "error", err)
	return nil
}

func (p *Pipeline) speak(ctx context.Context, text string) error {
	if err := ValidateSpeechText(text); err != nil {
		return playbackError("validate", err)
	}

	device, err := p.device()
	if err != nil {
		return playbackError("device", err)
	}
	if device.Suspended() {
		if err := device.Resume(); err != nil {
			return playbackError("resume", err)
		}
	}

	speech, err := p.provider.Synthesize(ctx, text)
	if err != nil {
		return playbackError("synthesize", err)
	}

	buf, err := speech.Buffer()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return playbackError("play", err)
	}
	if err := device.Start(buf); err != nil {
		return playbackError("play", err)
	}
	return nil
}

// Provider returns the provider the pipeline synthesizes with
func (p *Pipeline) Provider() Provider {
	return p.provider
}
