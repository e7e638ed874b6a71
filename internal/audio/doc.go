// Package audio turns text into audible Turkish speech. A Provider asks a
// remote model for raw 16-bit PCM, the PCM is normalized into a float buffer
// and started on a single, lazily created output device.
package audio
