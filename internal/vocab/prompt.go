package vocab

import "fmt"

// BuildPrompt creates the generation prompt for a request
func BuildPrompt(req Request) string {
	count := req.Count
	if count <= 0 {
		count = DefaultCount
	}
	level := req.Level
	if level == "" {
		level = DefaultLevel
	}

	return fmt.Sprintf(`Generate %d Turkish vocabulary words related to the topic: "%s".
Target Level: %s.

Strict Rules:
1. Words must be suitable for a complete beginner.
2. Example sentences must be VERY SHORT and SIMPLE (Subject-Object-Verb structure where possible).
3. Do not use complex grammar or long sentences. Keep it basic.

For each word, provide:
1. The Turkish word.
2. The Traditional Chinese translation.
3. A pronunciation guide (phonetic approximation).
4. A simple example sentence at this level.
5. The Traditional Chinese translation of that sentence.`, count, req.Topic, level)
}
