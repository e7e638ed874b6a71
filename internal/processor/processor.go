package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"codeberg.org/snonux/merhaba/internal/anki"
	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/cli"
	"codeberg.org/snonux/merhaba/internal/gui"
	"codeberg.org/snonux/merhaba/internal/session"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

// playbackTail is added to the clip length before Say returns so the device
// buffer drains
const playbackTail = 300 * time.Millisecond

// GeneratorFactory builds the vocabulary generator
type GeneratorFactory func(ctx context.Context) (vocab.Generator, error)

// ProviderFactory builds the speech provider
type ProviderFactory func(ctx context.Context) (audio.Provider, error)

// Option customizes a Processor
type Option func(*Processor)

// WithGenerator replaces the generator built from the settings
func WithGenerator(f GeneratorFactory) Option {
	return func(p *Processor) { p.newGenerator = f }
}

// WithProvider replaces the speech provider built from the settings
func WithProvider(f ProviderFactory) Option {
	return func(p *Processor) { p.newProvider = f }
}

// WithDevice replaces the shared output device
func WithDevice(source func() (audio.Device, error)) Option {
	return func(p *Processor) { p.devices = audio.NewDeviceSource(source) }
}

// WithOutput redirects text output
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// Processor runs the commands selected on the command line
type Processor struct {
	settings *cli.Settings
	out      io.Writer
	logger   *log.Logger

	newGenerator GeneratorFactory
	newProvider  ProviderFactory
	devices      *audio.DeviceSource

	mu    sync.Mutex
	cache *audio.Cache
}

// NewProcessor creates a processor for the resolved settings
func NewProcessor(settings *cli.Settings, opts ...Option) *Processor {
	p := &Processor{
		settings: settings,
		out:      os.Stdout,
		logger:   log.WithPrefix("processor"),
	}
	p.newGenerator = p.defaultGenerator
	p.newProvider = p.defaultProvider
	p.devices = audio.Shared()
	if settings.Mute {
		p.devices = audio.NewDeviceSource(func() (audio.Device, error) {
			return audio.NewNullDevice(audio.SampleRate), nil
		})
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ListCategories prints the available lesson categories
func (p *Processor) ListCategories() error {
	for _, c := range p.settings.Categories {
		if _, err := fmt.Fprintf(p.out, "%s  %-14s %s\n", c.Emoji, c.ID, c.Label); err != nil {
			return err
		}
	}
	return nil
}

// RunLesson generates a lesson for the category id and prints its cards
func (p *Processor) RunLesson(ctx context.Context, id string) error {
	_, err := p.lesson(ctx, id)
	return err
}

// ExportLesson generates and prints the lesson for category id, then writes
// it to path as an Anki import file
func (p *Processor) ExportLesson(ctx context.Context, id, path string) error {
	snap, err := p.lesson(ctx, id)
	if err != nil {
		return err
	}

	opts := anki.DefaultGeneratorOptions()
	opts.OutputPath = path
	gen := anki.NewGenerator(opts)
	gen.AddWords(snap.Words, snap.Category.ID)
	if err := gen.GenerateCSV(); err != nil {
		return fmt.Errorf("anki export: %w", err)
	}

	total, _ := gen.Stats()
	p.logger.Info("Exported lesson", "category", snap.Category.ID, "path", path)
	fmt.Fprintf(p.out, "\nWrote %s %s to %s\n", humanize.Comma(int64(total)), plural(int64(total), "card", "cards"), path)
	return nil
}

// lesson generates and prints the lesson for category id
func (p *Processor) lesson(ctx context.Context, id string) (session.Snapshot, error) {
	category, ok := vocab.FindCategory(p.settings.Categories, id)
	if !ok {
		return session.Snapshot{}, fmt.Errorf("unknown category %q (see --list-categories)", id)
	}

	generator, err := p.newGenerator(ctx)
	if err != nil {
		return session.Snapshot{}, err
	}

	sess := session.New(session.Config{
		Generator: generator,
		Count:     p.settings.Count,
		Level:     p.settings.Level,
	})
	defer sess.Close()

	start := time.Now()
	if err := sess.Select(category); err != nil {
		return session.Snapshot{}, err
	}
	fmt.Fprintln(p.out, sess.Snapshot().LoadingMessage())

	// Home cancels the in-flight request when ctx is interrupted
	stop := context.AfterFunc(ctx, sess.Home)
	sess.Wait()
	stop()

	if ctx.Err() != nil {
		return session.Snapshot{}, ctx.Err()
	}

	snap := sess.Snapshot()
	if snap.View == session.ViewError {
		fmt.Fprintln(p.out, snap.ErrorMessage)
		return snap, sess.Err()
	}

	p.printLesson(snap, time.Since(start))
	return snap, nil
}

func (p *Processor) printLesson(snap session.Snapshot, elapsed time.Duration) {
	fmt.Fprintf(p.out, "\n%s %s: %s words (generated in %s)\n\n",
		snap.Category.Emoji, snap.Category.DisplayName(),
		humanize.Comma(int64(len(snap.Words))), elapsed.Round(time.Millisecond))

	width := len(fmt.Sprint(len(snap.Words)))
	for i, w := range snap.Words {
		fmt.Fprintf(p.out, "%*d. %s /%s/ - %s\n", width, i+1, w.Turkish, w.Pronunciation, w.Chinese)
		fmt.Fprintf(p.out, "%s  %s\n", strings.Repeat(" ", width), w.ExampleSentence)
		fmt.Fprintf(p.out, "%s  %s\n", strings.Repeat(" ", width), w.ExampleTranslation)
	}
}

// Say speaks text and returns once the clip has finished
func (p *Processor) Say(ctx context.Context, text string) error {
	if err := audio.ValidateSpeechText(text); err != nil {
		return fmt.Errorf("invalid text: %w", err)
	}

	provider, err := p.speechProvider(ctx)
	if err != nil {
		return err
	}

	tracker := &playbackTracker{}
	pipeline := audio.NewPipeline(provider, audio.WithDevice(tracker.wrap(p.devices.Get)))
	if err := pipeline.Speak(ctx, text, audio.Surface); err != nil {
		return err
	}

	d := tracker.Duration()
	p.logger.Debug("Waiting for playback", "duration", d)
	select {
	case <-time.After(d + playbackTail):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CacheStats prints the size of the speech cache
func (p *Processor) CacheStats(ctx context.Context) error {
	cache, err := p.openCache()
	if err != nil {
		return err
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Cache:   %s\n", p.settings.CachePath)
	fmt.Fprintf(p.out, "Entries: %s\n", humanize.Comma(stats.Entries))
	fmt.Fprintf(p.out, "Size:    %s\n", humanize.Bytes(uint64(stats.Bytes)))
	return nil
}

// ClearCache removes every cached clip
func (p *Processor) ClearCache(ctx context.Context) error {
	cache, err := p.openCache()
	if err != nil {
		return err
	}

	n, err := cache.Clear(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Removed %s cached %s\n", humanize.Comma(n), plural(n, "clip", "clips"))
	return nil
}

// RunGUIMode launches the desktop application and blocks until it exits
func (p *Processor) RunGUIMode(ctx context.Context) error {
	generator, err := p.newGenerator(ctx)
	if err != nil {
		return err
	}

	// Speech is optional in the GUI; lessons still work without it
	var speaker session.Speaker
	provider, err := p.speechProvider(ctx)
	if err != nil {
		p.logger.Warn("Speech disabled", "error", err)
	} else {
		speaker = audio.NewPipeline(provider, audio.WithDevice(p.devices.Get))
	}

	sess := session.New(session.Config{
		Generator: generator,
		Speaker:   speaker,
		AutoPlay:  p.settings.AutoPlay,
		Count:     p.settings.Count,
		Level:     p.settings.Level,
	})
	defer sess.Close()

	app := gui.New(&gui.Config{
		Session:    sess,
		Categories: p.settings.Categories,
		Audio:      p.devices,
	})
	app.Run()
	return nil
}

// Close releases the speech cache
func (p *Processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache == nil {
		return nil
	}
	err := p.cache.Close()
	p.cache = nil
	return err
}

func (p *Processor) defaultGenerator(ctx context.Context) (vocab.Generator, error) {
	s := p.settings
	switch s.Provider {
	case "openai":
		return vocab.NewOpenAIGenerator(vocab.OpenAIConfig{
			APIKey:  s.OpenAIKey,
			Model:   s.OpenAITextModel,
			BaseURL: s.Audio.OpenAIBaseURL,
			Breaker: s.Breaker,
		})
	default:
		if s.GeminiKey == "" {
			return nil, errors.New("Gemini API key is required (set GEMINI_API_KEY)")
		}
		return vocab.NewGeminiGenerator(ctx, vocab.GeminiConfig{
			APIKey:  s.GeminiKey,
			Model:   s.GeminiTextModel,
			Breaker: s.Breaker,
		})
	}
}

func (p *Processor) defaultProvider(ctx context.Context) (audio.Provider, error) {
	return audio.NewProvider(ctx, p.settings.Audio)
}

// speechProvider builds the provider and puts the cache in front of it
func (p *Processor) speechProvider(ctx context.Context) (audio.Provider, error) {
	provider, err := p.newProvider(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech provider: %w", err)
	}
	if !p.settings.CacheEnabled {
		return provider, nil
	}

	cache, err := p.openCache()
	if err != nil {
		p.logger.Warn("Speech cache unavailable", "path", p.settings.CachePath, "error", err)
		return provider, nil
	}

	model, voice := p.settings.Audio.ModelAndVoice()
	return audio.NewCachedProvider(provider, cache, model, voice), nil
}

func (p *Processor) openCache() (*audio.Cache, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache != nil {
		return p.cache, nil
	}

	cache, err := audio.OpenCache(p.settings.CachePath)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return cache, nil
}

// playbackTracker remembers the length of the clips started on a device
type playbackTracker struct {
	mu       sync.Mutex
	duration time.Duration
}

func (t *playbackTracker) wrap(source func() (audio.Device, error)) func() (audio.Device, error) {
	return func() (audio.Device, error) {
		d, err := source()
		if err != nil {
			return nil, err
		}
		return &trackedDevice{Device: d, tracker: t}, nil
	}
}

// Duration returns the length of the longest clip started so far
func (t *playbackTracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

type trackedDevice struct {
	audio.Device
	tracker *playbackTracker
}

func (d *trackedDevice) Start(buf *audio.Buffer) error {
	if err := d.Device.Start(buf); err != nil {
		return err
	}
	d.tracker.mu.Lock()
	d.tracker.duration = max(d.tracker.duration, buf.Duration())
	d.tracker.mu.Unlock()
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
