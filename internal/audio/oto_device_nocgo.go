//go:build nocgo

package audio

import "fmt"

// OtoDevice is unavailable without cgo
type OtoDevice struct{ NullDevice }

// NewOtoDevice always fails in nocgo builds; use --mute
func NewOtoDevice(rate, channels int) (*OtoDevice, error) {
	return nil, fmt.Errorf("audio output not available in nocgo builds")
}
