package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

const (
	// AdvanceDelay is how long an answered question stays on screen
	AdvanceDelay = 1500 * time.Millisecond
	// AutoPlayDelay is the pause before a new flashcard is spoken
	AutoPlayDelay = 500 * time.Millisecond
)

// Speaker plays a Turkish word
type Speaker interface {
	Speak(ctx context.Context, text string, policy audio.Policy) error
}

// Scheduler runs f after d and returns a function that cancels it
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// TimerScheduler schedules with time.AfterFunc
func TimerScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Config holds the collaborators of a Session
type Config struct {
	Generator vocab.Generator
	Speaker   Speaker // nil disables speech
	AutoPlay  bool

	Count int
	Level string

	AdvanceDelay  time.Duration
	AutoPlayDelay time.Duration
	Scheduler     Scheduler
	Rand          *rand.Rand
	Logger        *log.Logger
}

// Session is the single live lesson state machine
type Session struct {
	mu sync.Mutex

	cfg    Config
	logger *log.Logger
	rng    *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc

	// pending counts background generation and playback calls; idle is
	// signalled when it drops to zero
	pending int
	idle    *sync.Cond
	closed  bool

	id        string
	version   uint64
	epoch     uint64
	view      View
	category  *vocab.Category
	words     []vocab.Word
	cardIndex int
	flipped   bool
	errMsg    string
	lastErr   error
	quiz      *quizState

	cancelGeneration context.CancelFunc
	stopCardAudio    func() bool
	stopAdvance      func() bool

	observers []func(Snapshot)
}

// New creates a session in the home view
func New(cfg Config) *Session {
	if cfg.Count <= 0 {
		cfg.Count = vocab.DefaultCount
	}
	if cfg.Level == "" {
		cfg.Level = vocab.DefaultLevel
	}
	if cfg.AdvanceDelay <= 0 {
		cfg.AdvanceDelay = AdvanceDelay
	}
	if cfg.AutoPlayDelay <= 0 {
		cfg.AutoPlayDelay = AutoPlayDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:    cfg,
		logger: logger,
		rng:    rng,
		ctx:    ctx,
		cancel: cancel,
		id:     uuid.NewString(),
		view:   ViewHome,
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// OnChange registers fn to receive a snapshot after every transition.
// fn is called outside the session lock from whichever goroutine made the
// change; use Snapshot.Version to drop out-of-order deliveries.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:           s.id,
		Version:      s.version,
		View:         s.view,
		CardIndex:    s.cardIndex,
		Flipped:      s.flipped,
		ErrorMessage: s.errMsg,
	}
	if s.category != nil {
		c := *s.category
		snap.Category = &c
	}
	if len(s.words) > 0 {
		snap.Words = append([]vocab.Word(nil), s.words...)
	}
	if s.quiz != nil {
		q := s.quiz
		word := s.words[q.questionIndex]
		snap.Quiz = &QuizSnapshot{
			QuestionIndex: q.questionIndex,
			Total:         len(s.words),
			Score:         q.score,
			AnsweredCount: q.answeredCount,
			Question:      word.Turkish,
			Correct:       word.Chinese,
			Options:       append([]string(nil), q.options...),
			Selected:      q.selected,
			Answered:      q.answered,
			Finished:      q.finished,
		}
	}
	return snap
}

// commitLocked bumps the version and returns the observers and snapshot to
// publish once the lock is released.
func (s *Session) commitLocked() func() {
	s.version++
	snap := s.snapshotLocked()
	observers := slices.Clone(s.observers)
	return func() {
		for _, fn := range observers {
			fn(snap)
		}
	}
}

// Err returns the detailed error behind the error view, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Select starts loading a lesson for category
func (s *Session) Select(category vocab.Category) error {
	s.mu.Lock()
	if s.view != ViewHome {
		s.mu.Unlock()
		return ErrBusy
	}

	s.epoch++
	epoch := s.epoch
	s.view = ViewLoading
	s.category = &category
	s.errMsg = ""
	s.lastErr = nil

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelGeneration = cancel
	req := vocab.Request{Topic: category.PromptTopic, Count: s.cfg.Count, Level: s.cfg.Level}

	s.logger.Info("Generating lesson", "session", s.id, "category", category.ID, "generator", s.cfg.Generator.Name())
	publish := s.commitLocked()
	s.pending++
	s.mu.Unlock()
	publish()

	go func() {
		defer s.done()
		defer cancel()
		start := time.Now()
		words, err := s.cfg.Generator.Generate(ctx, req)
		if err == nil {
			err = vocab.Validate(words)
		}
		s.finishGeneration(epoch, words, err, time.Since(start))
	}()
	return nil
}

func (s *Session) finishGeneration(epoch uint64, words []vocab.Word, err error, elapsed time.Duration) {
	s.mu.Lock()
	if epoch != s.epoch || s.view != ViewLoading {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale generation result", "epoch", epoch, "error", err)
		return
	}
	s.cancelGeneration = nil

	if err != nil {
		s.lastErr = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		s.view = ViewError
		s.errMsg = GenerationFailedMessage
		s.logger.Error("Lesson generation failed", "session", s.id, "elapsed", elapsed, "error", err)
	} else {
		s.words = append([]vocab.Word(nil), words...)
		s.view = ViewLearning
		s.cardIndex = 0
		s.flipped = false
		s.logger.Info("Lesson ready", "session", s.id, "words", len(words), "elapsed", elapsed)
		s.scheduleCardAudioLocked()
	}

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
}

// Next shows the next card, or starts the quiz after the last one
func (s *Session) Next() {
	s.mu.Lock()
	if s.view != ViewLearning {
		s.mu.Unlock()
		return
	}

	var speakNow string
	if s.cardIndex < len(s.words)-1 {
		s.cardIndex++
		s.flipped = false
		s.scheduleCardAudioLocked()
	} else {
		s.stopTimersLocked()
		s.epoch++
		s.view = ViewQuiz
		s.quiz = &quizState{options: BuildOptions(s.words, 0, s.rng)}
		speakNow = s.words[0].Turkish
		s.logger.Info("Starting quiz", "session", s.id, "questions", len(s.words))
	}

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
	s.speakAsync(speakNow)
}

// Prev shows the previous card; no-op on the first one
func (s *Session) Prev() {
	s.mu.Lock()
	if s.view != ViewLearning || s.cardIndex == 0 {
		s.mu.Unlock()
		return
	}
	s.cardIndex--
	s.flipped = false
	s.scheduleCardAudioLocked()

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
}

// Flip turns the current flashcard over
func (s *Session) Flip() {
	s.mu.Lock()
	if s.view != ViewLearning {
		s.mu.Unlock()
		return
	}
	s.flipped = !s.flipped

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
}

// Restart goes back to the first card of the same lesson
func (s *Session) Restart() {
	s.mu.Lock()
	if s.view != ViewQuiz {
		s.mu.Unlock()
		return
	}
	s.stopTimersLocked()
	s.epoch++
	s.view = ViewLearning
	s.quiz = nil
	s.cardIndex = 0
	s.flipped = false
	s.scheduleCardAudioLocked()

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
}

// Home resets the session. Results of requests still in flight are dropped.
func (s *Session) Home() {
	s.mu.Lock()
	s.stopTimersLocked()
	if s.cancelGeneration != nil {
		s.cancelGeneration()
		s.cancelGeneration = nil
	}
	s.epoch++
	s.id = uuid.NewString()
	s.view = ViewHome
	s.category = nil
	s.words = nil
	s.cardIndex = 0
	s.flipped = false
	s.errMsg = ""
	s.lastErr = nil
	s.quiz = nil

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
}

// Answer records choice for the current question. It returns false if the
// question was already answered or no question is shown.
func (s *Session) Answer(choice string) bool {
	s.mu.Lock()
	if s.view != ViewQuiz || s.quiz == nil || s.quiz.answered || s.quiz.finished {
		s.mu.Unlock()
		return false
	}

	q := s.quiz
	q.answered = true
	q.selected = choice
	q.answeredCount++
	if choice == s.words[q.questionIndex].Chinese {
		q.score++
	}

	epoch, question := s.epoch, q.questionIndex
	s.stopAdvance = s.cfg.Scheduler(s.cfg.AdvanceDelay, func() {
		s.advance(epoch, question)
	})

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
	return true
}

func (s *Session) advance(epoch uint64, question int) {
	s.mu.Lock()
	q := s.quiz
	if epoch != s.epoch || s.view != ViewQuiz || q == nil || q.questionIndex != question || !q.answered || q.finished {
		s.mu.Unlock()
		return
	}
	s.stopAdvance = nil

	var speakNow string
	if q.questionIndex < len(s.words)-1 {
		q.questionIndex++
		q.options = BuildOptions(s.words, q.questionIndex, s.rng)
		q.selected = ""
		q.answered = false
		speakNow = s.words[q.questionIndex].Turkish
	} else {
		q.finished = true
		s.logger.Info("Quiz finished", "session", s.id, "score", q.score, "total", len(s.words))
	}

	publish := s.commitLocked()
	s.mu.Unlock()
	publish()
	s.speakAsync(speakNow)
}

// PlayCurrent speaks the word on screen and reports any failure
func (s *Session) PlayCurrent(ctx context.Context) error {
	s.mu.Lock()
	text := s.currentWordLocked()
	s.mu.Unlock()

	if text == "" {
		return ErrNothingToPlay
	}
	if s.cfg.Speaker == nil {
		return nil
	}
	return s.cfg.Speaker.Speak(ctx, text, audio.Surface)
}

// PlayExample speaks the example sentence of the card on screen
func (s *Session) PlayExample(ctx context.Context) error {
	s.mu.Lock()
	var text string
	if s.view == ViewLearning {
		text = s.words[s.cardIndex].ExampleSentence
	}
	s.mu.Unlock()

	if text == "" {
		return ErrNothingToPlay
	}
	if s.cfg.Speaker == nil {
		return nil
	}
	return s.cfg.Speaker.Speak(ctx, text, audio.Surface)
}

func (s *Session) currentWordLocked() string {
	switch {
	case s.view == ViewLearning:
		return s.words[s.cardIndex].Turkish
	case s.view == ViewQuiz && s.quiz != nil && !s.quiz.finished:
		return s.words[s.quiz.questionIndex].Turkish
	}
	return ""
}

// scheduleCardAudioLocked replaces any pending card playback with one for
// the current card
func (s *Session) scheduleCardAudioLocked() {
	if s.stopCardAudio != nil {
		s.stopCardAudio()
		s.stopCardAudio = nil
	}
	if s.cfg.Speaker == nil || !s.cfg.AutoPlay {
		return
	}

	epoch, index := s.epoch, s.cardIndex
	text := s.words[index].Turkish
	s.stopCardAudio = s.cfg.Scheduler(s.cfg.AutoPlayDelay, func() {
		s.mu.Lock()
		current := epoch == s.epoch && s.view == ViewLearning && s.cardIndex == index
		s.mu.Unlock()
		if current {
			s.speakAsync(text)
		}
	})
}

func (s *Session) stopTimersLocked() {
	if s.stopCardAudio != nil {
		s.stopCardAudio()
		s.stopCardAudio = nil
	}
	if s.stopAdvance != nil {
		s.stopAdvance()
		s.stopAdvance = nil
	}
}

// speakAsync plays text in the background with failures only logged
func (s *Session) speakAsync(text string) {
	if text == "" || s.cfg.Speaker == nil || !s.cfg.AutoPlay {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending++
	s.mu.Unlock()

	go func() {
		defer s.done()
		if err := s.cfg.Speaker.Speak(s.ctx, text, audio.Silent); err != nil {
			s.logger.Warn("Automatic playback failed", "text", text, "error", err)
		}
	}()
}

// Wait blocks until background generation and playback calls have returned
func (s *Session) Wait() {
	s.mu.Lock()
	for s.pending > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

func (s *Session) done() {
	s.mu.Lock()
	s.pending--
	if s.pending == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// Close stops pending timers, cancels in-flight requests and waits for them
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimersLocked()
	s.mu.Unlock()
	s.cancel()
	s.Wait()
}
