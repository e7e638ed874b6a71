package session

import (
	"fmt"

	"codeberg.org/snonux/merhaba/internal/vocab"
)

// Snapshot is an immutable copy of the session state
type Snapshot struct {
	ID           string
	Version      uint64
	View         View
	Category     *vocab.Category
	Words        []vocab.Word
	CardIndex    int
	Flipped      bool
	ErrorMessage string
	Quiz         *QuizSnapshot
}

// Card returns the flashcard being shown
func (s Snapshot) Card() (vocab.Word, bool) {
	if s.View != ViewLearning || s.CardIndex >= len(s.Words) {
		return vocab.Word{}, false
	}
	return s.Words[s.CardIndex], true
}

// IsFirst reports whether the first card is shown
func (s Snapshot) IsFirst() bool {
	return s.CardIndex == 0
}

// IsLast reports whether the last card is shown
func (s Snapshot) IsLast() bool {
	return s.CardIndex == len(s.Words)-1
}

// Progress renders the card position as "n / total"
func (s Snapshot) Progress() string {
	return fmt.Sprintf("%d / %d", s.CardIndex+1, len(s.Words))
}

// LoadingMessage is shown while the lesson is generated
func (s Snapshot) LoadingMessage() string {
	label := ""
	if s.Category != nil {
		label = s.Category.DisplayName()
	}
	return fmt.Sprintf("正在為您準備 \"%s\" 的課程內容...", label)
}
