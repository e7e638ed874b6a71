// Package processor runs the command-line modes of merhaba. It builds the
// vocabulary generator, the speech pipeline and its cache from the resolved
// settings, and either prints a lesson (optionally exporting it as an Anki
// deck), speaks a phrase, maintains the cache or hands a session to the
// desktop UI.
package processor
