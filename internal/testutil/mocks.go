package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

// MockGenerator mocks a vocabulary generator
type MockGenerator struct {
	Words []vocab.Word
	Err   error
	// Release, when set, blocks Generate until a value is received or it is closed
	Release chan struct{}

	mu       sync.Mutex
	Requests []vocab.Request
}

// Generate records the request and returns the configured result
func (m *MockGenerator) Generate(ctx context.Context, req vocab.Request) ([]vocab.Word, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.Release != nil {
		<-m.Release
	}
	return m.Words, m.Err
}

// Name returns the generator name
func (m *MockGenerator) Name() string {
	return "mock"
}

// Calls returns the number of Generate calls
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// SpeakCall is one recorded Speak invocation
type SpeakCall struct {
	Text   string
	Policy audio.Policy
}

// MockSpeaker records Speak calls
type MockSpeaker struct {
	Err error

	mu    sync.Mutex
	calls []SpeakCall
}

// Speak records the call. Silent calls never return an error.
func (m *MockSpeaker) Speak(ctx context.Context, text string, policy audio.Policy) error {
	m.mu.Lock()
	m.calls = append(m.calls, SpeakCall{Text: text, Policy: policy})
	m.mu.Unlock()

	if policy == audio.Silent {
		return nil
	}
	return m.Err
}

// Calls returns a copy of the recorded calls
func (m *MockSpeaker) Calls() []SpeakCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SpeakCall(nil), m.calls...)
}

// Texts returns the spoken texts in call order
func (m *MockSpeaker) Texts() []string {
	var texts []string
	for _, c := range m.Calls() {
		texts = append(texts, c.Text)
	}
	return texts
}

// ManualScheduler collects scheduled functions until the test runs them
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

// Schedule satisfies the session scheduler signature
func (m *ManualScheduler) Schedule(d time.Duration, f func()) func() bool {
	task := &scheduled{delay: d, fn: f}
	m.mu.Lock()
	m.pending = append(m.pending, task)
	m.mu.Unlock()

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if task.stopped {
			return false
		}
		task.stopped = true
		return true
	}
}

// Pending returns the delays of scheduled functions that were not stopped
func (m *ManualScheduler) Pending() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var delays []time.Duration
	for _, t := range m.pending {
		if !t.stopped {
			delays = append(delays, t.delay)
		}
	}
	sort.Slice(delays, func(i, j int) bool { return delays[i] < delays[j] })
	return delays
}

// Fire runs every pending function scheduled with delay d and returns how
// many ran. Functions scheduled while firing are kept for the next call.
func (m *ManualScheduler) Fire(d time.Duration) int {
	m.mu.Lock()
	var due []*scheduled
	keep := m.pending[:0]
	for _, t := range m.pending {
		switch {
		case t.stopped:
		case t.delay == d:
			t.stopped = true
			due = append(due, t)
		default:
			keep = append(keep, t)
		}
	}
	m.pending = keep
	m.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// MakeWords returns n valid words with distinct translations
func MakeWords(n int) []vocab.Word {
	words := make([]vocab.Word, n)
	for i := range words {
		words[i] = vocab.Word{
			Turkish:            fmt.Sprintf("kelime%d", i),
			Chinese:            fmt.Sprintf("單字%d", i),
			Pronunciation:      fmt.Sprintf("ke-li-me-%d", i),
			ExampleSentence:    fmt.Sprintf("Bu kelime%d.", i),
			ExampleTranslation: fmt.Sprintf("這是單字%d。", i),
		}
	}
	return words
}
