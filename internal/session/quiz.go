package session

import (
	"math"
	"math/rand/v2"

	"codeberg.org/snonux/merhaba/internal/vocab"
)

// WrongOptionCount is the number of distractors per question
const WrongOptionCount = 3

// BuildOptions returns the answer options for words[index]: the correct
// translation plus up to WrongOptionCount distinct translations of other
// words, in uniformly random order. Lessons with fewer distinct translations
// get fewer options.
func BuildOptions(words []vocab.Word, index int, rng *rand.Rand) []string {
	correct := words[index].Chinese

	seen := map[string]bool{correct: true}
	pool := make([]string, 0, len(words))
	for i, w := range words {
		if i == index || seen[w.Chinese] {
			continue
		}
		seen[w.Chinese] = true
		pool = append(pool, w.Chinese)
	}

	// A shuffled prefix is a uniform sample without replacement
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := min(WrongOptionCount, len(pool))

	options := make([]string, 0, n+1)
	options = append(options, pool[:n]...)
	options = append(options, correct)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

type quizState struct {
	questionIndex int
	score         int
	answeredCount int
	options       []string
	selected      string
	answered      bool
	finished      bool
}

// QuizSnapshot is the quiz part of a Snapshot
type QuizSnapshot struct {
	QuestionIndex int
	Total         int
	Score         int
	AnsweredCount int
	Question      string // Turkish word being asked
	Correct       string
	Options       []string
	Selected      string
	Answered      bool
	Finished      bool // result screen
}

// Percentage returns the rounded share of correct answers
func (q QuizSnapshot) Percentage() int {
	if q.Total == 0 {
		return 0
	}
	return int(math.Round(float64(q.Score) / float64(q.Total) * 100))
}

// IsCorrect reports whether the selected answer was right
func (q QuizSnapshot) IsCorrect() bool {
	return q.Answered && q.Selected == q.Correct
}
