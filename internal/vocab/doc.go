// Package vocab provides the lesson vocabulary model, the topic categories
// and the generators that ask a remote language model (Gemini or OpenAI) for
// a list of beginner Turkish words with Traditional Chinese translations.
package vocab
