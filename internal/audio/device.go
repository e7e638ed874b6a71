package audio

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Device is a process-wide audio output
type Device interface {
	SampleRate() int
	Suspended() bool
	Suspend() error
	Resume() error
	// Start begins playing buf and returns without waiting for it to finish
	Start(buf *Buffer) error
}

// DeviceFactory creates an output device
type DeviceFactory func() (Device, error)

// DeviceSource opens a device on first use and hands out the same instance
// (or the same creation error) afterwards
type DeviceSource struct {
	factory DeviceFactory
	once    sync.Once
	opened  atomic.Bool
	device  Device
	err     error
}

// NewDeviceSource creates a source that opens its device with factory
func NewDeviceSource(factory DeviceFactory) *DeviceSource {
	return &DeviceSource{factory: factory}
}

// Get returns the device, opening it on the first call
func (s *DeviceSource) Get() (Device, error) {
	s.once.Do(func() {
		s.device, s.err = s.factory()
		if s.err != nil {
			log.Error("Failed to open audio device", "error", s.err)
			return
		}
		s.opened.Store(true)
	})
	return s.device, s.err
}

// Opened returns the device if it was opened successfully, without opening it
func (s *DeviceSource) Opened() Device {
	if !s.opened.Load() {
		return nil
	}
	return s.device
}

// LazyDevice returns an accessor that creates the device on first call
func LazyDevice(factory DeviceFactory) func() (Device, error) {
	return NewDeviceSource(factory).Get
}

var shared = NewDeviceSource(func() (Device, error) {
	d, err := NewOtoDevice(SampleRate, Channels)
	if err != nil {
		return nil, err
	}
	return d, nil
})

// Shared returns the source of the process-wide output device
func Shared() *DeviceSource {
	return shared
}

// SharedDevice returns the process-wide output device, opening it on first use
func SharedDevice() (Device, error) {
	return shared.Get()
}

// NullDevice discards audio. Used for --mute and in tests.
type NullDevice struct {
	rate      int
	suspended atomic.Bool
	started   atomic.Int64
	mu        sync.Mutex
	last      *Buffer
}

// NewNullDevice creates a silent device at rate
func NewNullDevice(rate int) *NullDevice {
	return &NullDevice{rate: rate}
}

func (d *NullDevice) SampleRate() int { return d.rate }

func (d *NullDevice) Suspended() bool { return d.suspended.Load() }

func (d *NullDevice) Suspend() error {
	d.suspended.Store(true)
	return nil
}

func (d *NullDevice) Resume() error {
	d.suspended.Store(false)
	return nil
}

func (d *NullDevice) Start(buf *Buffer) error {
	d.started.Add(1)
	d.mu.Lock()
	d.last = buf
	d.mu.Unlock()
	log.Debug("Muted playback", "frames", buf.Frames(), "duration", buf.Duration())
	return nil
}

// Started returns how many buffers were started
func (d *NullDevice) Started() int {
	return int(d.started.Load())
}

// Last returns the most recently started buffer
func (d *NullDevice) Last() *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
