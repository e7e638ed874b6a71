//go:build !nocgo

package audio

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

const reapInterval = 250 * time.Millisecond

// OtoDevice plays float32 buffers through an oto context
type OtoDevice struct {
	context  *oto.Context
	rate     int
	channels int

	mu        sync.Mutex
	suspended bool
	players   []*oto.Player
	reaping   bool
}

// NewOtoDevice opens the system audio output
func NewOtoDevice(rate, channels int) (*OtoDevice, error) {
	options := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	switch runtime.GOOS {
	case "darwin":
		options.BufferSize = 100 * time.Millisecond
	case "windows":
		options.BufferSize = 80 * time.Millisecond
	default:
		options.BufferSize = 50 * time.Millisecond
	}

	log.Debug("Initializing audio device",
		"sample_rate", options.SampleRate,
		"channels", options.ChannelCount,
		"buffer_size", options.BufferSize)

	context, readyChan, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-readyChan:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context initialization timeout")
	}

	return &OtoDevice{context: context, rate: rate, channels: channels}, nil
}

func (d *OtoDevice) SampleRate() int { return d.rate }

func (d *OtoDevice) Suspended() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suspended
}

// Suspend pauses all output, e.g. when the window loses focus
func (d *OtoDevice) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.suspended {
		return nil
	}
	if err := d.context.Suspend(); err != nil {
		return err
	}
	d.suspended = true
	return nil
}

func (d *OtoDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.suspended {
		return nil
	}
	if err := d.context.Resume(); err != nil {
		return err
	}
	d.suspended = false
	return nil
}

// Start creates a player for buf and starts it
func (d *OtoDevice) Start(buf *Buffer) error {
	if buf.SampleRate != d.rate || buf.Channels != d.channels {
		return fmt.Errorf("buffer format %d Hz/%d ch does not match device %d Hz/%d ch",
			buf.SampleRate, buf.Channels, d.rate, d.channels)
	}

	player := d.context.NewPlayer(bytes.NewReader(buf.Float32LE()))
	player.Play()

	d.mu.Lock()
	d.players = append(d.players, player)
	startReaper := !d.reaping
	d.reaping = true
	d.mu.Unlock()

	if startReaper {
		go d.reap()
	}
	return nil
}

// reap closes players once they have drained and exits when none are left
func (d *OtoDevice) reap() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for range ticker.C {
		d.mu.Lock()
		active := d.players[:0]
		for _, p := range d.players {
			if p.IsPlaying() {
				active = append(active, p)
				continue
			}
			if err := p.Close(); err != nil {
				log.Debug("Failed to close player", "error", err)
			}
		}
		d.players = active
		if len(d.players) == 0 {
			d.reaping = false
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
	}
}
