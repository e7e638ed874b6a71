// Package session drives a lesson: category selection, asynchronous
// vocabulary generation, flashcards, the quiz and its result.
//
// A Session is safe for concurrent use. Results of generation requests and
// delayed transitions carry the epoch they were issued under and are dropped
// when the session has moved on since.
package session
