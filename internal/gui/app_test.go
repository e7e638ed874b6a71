package gui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/session"
	"codeberg.org/snonux/merhaba/internal/testutil"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

type fixture struct {
	app       *Application
	session   *session.Session
	generator *testutil.MockGenerator
	speaker   *testutil.MockSpeaker
	scheduler *testutil.ManualScheduler
}

func newFixture(t *testing.T, gen *testutil.MockGenerator) *fixture {
	t.Helper()
	f := &fixture{
		generator: gen,
		speaker:   &testutil.MockSpeaker{},
		scheduler: &testutil.ManualScheduler{},
	}
	f.session = session.New(session.Config{
		Generator: gen,
		Speaker:   f.speaker,
		Scheduler: f.scheduler.Schedule,
		Rand:      rand.New(rand.NewPCG(3, 4)),
	})
	t.Cleanup(f.session.Close)

	f.app = New(&Config{
		Session:    f.session,
		Categories: vocab.DefaultCategories(),
		App:        test.NewTempApp(t),
	})
	f.app.dispatch = func(fn func()) { fn() }
	t.Cleanup(f.app.Close)
	return f
}

func (f *fixture) body() fyne.CanvasObject {
	if len(f.app.body.Objects) != 1 {
		return nil
	}
	return f.app.body.Objects[0]
}

// learning selects the first category and waits for the lesson
func (f *fixture) learning(t *testing.T) {
	t.Helper()
	test.Tap(f.app.categories.buttons[0])
	f.session.Wait()
	require.Equal(t, session.ViewLearning, f.app.Snapshot().View)
}

func TestNewShowsCategories(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{})

	assert.Same(t, f.app.categories, f.body())
	assert.Len(t, f.app.categories.buttons, len(vocab.DefaultCategories()))
	assert.True(t, f.app.homeButton.Disabled())
	assert.Contains(t, f.app.categories.buttons[0].Text, vocab.DefaultCategories()[0].Emoji)
}

func TestLoadingDisablesCategories(t *testing.T) {
	gen := &testutil.MockGenerator{Words: testutil.MakeWords(2), Release: make(chan struct{})}
	f := newFixture(t, gen)

	test.Tap(f.app.categories.buttons[4])

	assert.Same(t, f.app.loading, f.body())
	assert.Contains(t, f.app.loading.message.Text, vocab.DefaultCategories()[4].Label)
	for _, b := range f.app.categories.buttons {
		assert.True(t, b.Disabled())
	}

	// A second selection while loading is ignored
	f.app.onSelect(vocab.DefaultCategories()[0])

	close(gen.Release)
	f.session.Wait()
	assert.Equal(t, 1, gen.Calls())
	assert.Same(t, f.app.flashcard, f.body())
}

func TestFlashcardNavigation(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(2)})
	f.learning(t)
	card := f.app.flashcard

	assert.Same(t, card, f.body())
	assert.Equal(t, "kelime0", textOf(card.turkish))
	assert.Equal(t, "/ke-li-me-0/", card.pronunciation.Text)
	assert.Equal(t, "1 / 2", card.progress.Text)
	assert.True(t, card.prevButton.Disabled())
	assert.Equal(t, "下一個", card.nextButton.Text)

	test.Tap(card)
	assert.True(t, card.Flipped())
	assert.True(t, card.back.Visible())
	assert.False(t, card.front.Visible())

	test.Tap(card.nextButton)
	assert.Equal(t, "2 / 2", card.progress.Text)
	assert.False(t, card.Flipped(), "a new card starts on its front")
	assert.False(t, card.prevButton.Disabled())
	assert.Equal(t, "開始測驗", card.nextButton.Text)

	f.app.handleKey(&fyne.KeyEvent{Name: fyne.KeyLeft})
	assert.Equal(t, "1 / 2", card.progress.Text)

	f.app.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	f.app.handleKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	assert.Same(t, f.app.quiz, f.body())
}

func TestQuizAndResult(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(2)})
	f.learning(t)
	f.session.Next()
	f.session.Next()
	require.Same(t, f.app.quiz, f.body())

	for question := 0; question < 2; question++ {
		q := f.app.Snapshot().Quiz
		require.NotNil(t, q)
		require.Len(t, f.app.quiz.optionButtons, 2, "two words give one distractor")
		assert.Equal(t, "kelime"+string(rune('0'+question)), textOf(f.app.quiz.question))

		correct := -1
		for i, option := range q.Options {
			if option == q.Correct {
				correct = i
			}
		}
		require.NotEqual(t, -1, correct)

		f.app.handleRune(rune('1' + correct))
		assert.Equal(t, widget.SuccessImportance, f.app.quiz.optionButtons[correct].Importance)
		for i, b := range f.app.quiz.optionButtons {
			if i != correct {
				assert.True(t, b.Disabled())
			}
		}

		f.scheduler.Fire(session.AdvanceDelay)
	}

	require.Same(t, f.app.result, f.body())
	assert.Equal(t, "2 / 2", textOf(f.app.result.score))
	assert.Equal(t, "正確率: 100%", f.app.result.percentage.Text)

	f.app.handleRune('r')
	assert.Same(t, f.app.flashcard, f.body())
	assert.Equal(t, "1 / 2", f.app.flashcard.progress.Text)
}

func TestWrongAnswerMarked(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(4)})
	f.learning(t)
	for i := 0; i < 4; i++ {
		f.session.Next()
	}

	q := f.app.Snapshot().Quiz
	require.NotNil(t, q)
	wrong := -1
	for i, option := range q.Options {
		if option != q.Correct {
			wrong = i
			break
		}
	}
	require.NotEqual(t, -1, wrong)

	test.Tap(f.app.quiz.optionButtons[wrong])
	assert.Equal(t, widget.DangerImportance, f.app.quiz.optionButtons[wrong].Importance)
	assert.Equal(t, 0, f.app.Snapshot().Quiz.Score)
}

func TestErrorViewGoesHome(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Err: errors.New("token limit")})

	test.Tap(f.app.categories.buttons[0])
	f.session.Wait()

	require.Same(t, f.app.errorView, f.body())
	assert.Equal(t, session.GenerationFailedMessage, f.app.errorView.message.Text)
	assert.False(t, f.app.homeButton.Disabled())

	test.Tap(f.app.errorView.homeButton)
	assert.Same(t, f.app.categories, f.body())
	assert.False(t, f.app.categories.buttons[0].Disabled())
}

func TestHomeHotkey(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(3)})
	f.learning(t)

	f.app.handleRune('b')
	assert.Same(t, f.app.categories, f.body())
	assert.Equal(t, session.ViewHome, f.session.Snapshot().View)
}

func TestApplyDropsStaleSnapshots(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(3)})
	f.learning(t)

	stale := f.session.Snapshot()
	f.session.Next()
	require.Equal(t, "2 / 3", f.app.flashcard.progress.Text)

	f.app.apply(stale)
	assert.Equal(t, "2 / 3", f.app.flashcard.progress.Text)
}

func TestManualPlayback(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{Words: testutil.MakeWords(2)})
	f.learning(t)

	f.app.handleRune('p')
	f.app.wg.Wait()
	f.app.handleRune('e')
	f.app.wg.Wait()

	calls := f.speaker.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "kelime0", calls[0].Text)
	assert.Equal(t, "Bu kelime0.", calls[1].Text)
	for _, c := range calls {
		assert.Equal(t, audio.Surface, c.Policy)
	}
}

func TestFlashcardSingleWord(t *testing.T) {
	test.NewTempApp(t)
	card := NewFlashcard(NewAudioPlayer(context.Background(), &sync.WaitGroup{}, func(fn func()) { fn() }, nil), nil, nil)

	card.Update(session.Snapshot{View: session.ViewLearning, Words: testutil.MakeWords(1), Flipped: true})

	assert.Equal(t, "1 / 1", card.progress.Text)
	assert.True(t, card.prevButton.Disabled())
	assert.Equal(t, "開始測驗", card.nextButton.Text)
	assert.True(t, card.Flipped())
	assert.Equal(t, "單字0", textOf(card.chinese))
}

func TestPlaybackMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"remote failure", fmt.Errorf("synthesize: %w", errors.New("quota")), PlaybackFailedMessage},
		{"breaker open", fmt.Errorf("Gemini TTS API error: %w", gobreaker.ErrOpenState), SpeechUnavailableMessage},
		{"half-open limit", fmt.Errorf("wrapped: %w", gobreaker.ErrTooManyRequests), SpeechUnavailableMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, playbackMessage(tt.err))
		})
	}
}

func TestAudioPlayerGuard(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var reported []error
	p := NewAudioPlayer(context.Background(), &wg, func(fn func()) { fn() }, func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	})
	b := p.NewButton("play", "Play", nil)

	release := make(chan struct{})
	started := p.Play(func(ctx context.Context) error {
		<-release
		return errors.New("quota")
	})
	require.True(t, started)
	assert.True(t, p.IsPlaying())
	assert.Equal(t, widget.HighImportance, b.Importance)

	assert.False(t, p.Play(func(context.Context) error { return nil }), "second playback must be refused")

	close(release)
	wg.Wait()
	assert.False(t, p.IsPlaying())
	assert.Equal(t, widget.MediumImportance, b.Importance)

	require.True(t, p.Play(func(context.Context) error { return session.ErrNothingToPlay }))
	wg.Wait()
	require.True(t, p.Play(func(context.Context) error { return context.Canceled }))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.EqualError(t, reported[0], "quota")
}

func TestSuspendAudio(t *testing.T) {
	f := newFixture(t, &testutil.MockGenerator{})

	device := audio.NewNullDevice(audio.SampleRate)
	var opened int
	f.app.config.Audio = audio.NewDeviceSource(func() (audio.Device, error) {
		opened++
		return device, nil
	})

	f.app.suspendAudio()
	assert.Equal(t, 0, opened, "an unused device is not opened just to suspend it")

	_, err := f.app.config.Audio.Get()
	require.NoError(t, err)
	f.app.suspendAudio()
	assert.True(t, device.Suspended())
	assert.Equal(t, 1, opened)
}

func TestLogViewer(t *testing.T) {
	v := NewLogViewer(func(fn func()) { fn() })

	n, err := v.Write([]byte("first\nsecond\n\n"))
	require.NoError(t, err)
	assert.Equal(t, len("first\nsecond\n\n"), n)
	assert.Equal(t, []string{"second", "first"}, v.Messages())
	assert.True(t, strings.HasPrefix(v.logEntry.Text, "second"))

	for i := 0; i < maxLogMessages+10; i++ {
		v.AddMessage("line")
	}
	assert.Len(t, v.Messages(), maxLogMessages)

	v.Clear()
	assert.Empty(t, v.Messages())
	assert.Empty(t, v.logEntry.Text)
}

func TestHotkeysListed(t *testing.T) {
	keys := make([]string, 0, len(hotkeys))
	for _, hk := range hotkeys {
		keys = append(keys, hk[0])
	}
	for _, want := range []string{"Space", "P", "1-4", "B"} {
		assert.Contains(t, keys, want)
	}
}
