package session

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/merhaba/internal/testutil"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

func TestBuildOptionsContract(t *testing.T) {
	words := testutil.MakeWords(30)
	rng := rand.New(rand.NewPCG(7, 7))

	for trial := 0; trial < 50; trial++ {
		for i := range words {
			options := BuildOptions(words, i, rng)
			require.Len(t, options, WrongOptionCount+1)

			seen := map[string]bool{}
			correct := 0
			for _, o := range options {
				assert.False(t, seen[o], "duplicate option %q", o)
				seen[o] = true
				if o == words[i].Chinese {
					correct++
				}
			}
			assert.Equal(t, 1, correct)
		}
	}
}

func TestBuildOptionsUniformPosition(t *testing.T) {
	const trials = 40000
	words := testutil.MakeWords(10)
	rng := rand.New(rand.NewPCG(42, 1))

	var positions [WrongOptionCount + 1]int
	for i := 0; i < trials; i++ {
		options := BuildOptions(words, 3, rng)
		for pos, o := range options {
			if o == words[3].Chinese {
				positions[pos]++
			}
		}
	}

	// Expected 10000 per slot, standard deviation ~87
	for pos, n := range positions {
		assert.InDelta(t, trials/len(positions), n, 600, "position %d", pos)
	}
}

func TestBuildOptionsUniformDistractors(t *testing.T) {
	const trials = 9000
	words := testutil.MakeWords(10)
	rng := rand.New(rand.NewPCG(3, 9))

	picked := map[string]int{}
	for i := 0; i < trials; i++ {
		for _, o := range BuildOptions(words, 0, rng) {
			picked[o]++
		}
	}

	// Each of the 9 other words is picked with probability 1/3
	for _, w := range words[1:] {
		assert.InDelta(t, trials/3, picked[w.Chinese], 300, "word %s", w.Turkish)
	}
	assert.Equal(t, trials, picked[words[0].Chinese])
}

func TestBuildOptionsSmallLessons(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	tests := []struct {
		name  string
		words []vocab.Word
		want  int
	}{
		{"single word", testutil.MakeWords(1), 1},
		{"two words", testutil.MakeWords(2), 2},
		{"three words", testutil.MakeWords(3), 3},
		{"four words", testutil.MakeWords(4), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := BuildOptions(tt.words, 0, rng)
			assert.Len(t, options, tt.want)
			assert.Contains(t, options, tt.words[0].Chinese)
		})
	}
}

func TestBuildOptionsSkipsDuplicateTranslations(t *testing.T) {
	words := testutil.MakeWords(5)
	words[1].Chinese = words[0].Chinese
	words[2].Chinese = words[3].Chinese
	rng := rand.New(rand.NewPCG(5, 5))

	for i := 0; i < 100; i++ {
		options := BuildOptions(words, 0, rng)
		// Distinct others: 單字3 and 單字4
		require.Len(t, options, 3)

		count := 0
		for _, o := range options {
			if o == words[0].Chinese {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestQuizPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{30, 30, 100},
		{0, 30, 0},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
	}
	for _, tt := range tests {
		q := QuizSnapshot{Score: tt.score, Total: tt.total}
		assert.Equal(t, tt.want, q.Percentage(), "%d/%d", tt.score, tt.total)
	}
}
