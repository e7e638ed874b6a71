package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Audio format of every synthesized payload
const (
	// SampleRate is the fixed sample rate in Hz
	SampleRate = 24000
	// Channels is the number of channels (mono)
	Channels = 1
	// BytesPerSample is the size of one 16-bit sample
	BytesPerSample = 2
)

// Buffer is normalized mono audio ready for the output device
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// NewBuffer creates a mono buffer at sampleRate
func NewBuffer(samples []float32, sampleRate int) *Buffer {
	return &Buffer{
		SampleRate: sampleRate,
		Channels:   Channels,
		Samples:    samples,
	}
}

// Frames returns the number of sample frames
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback length
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Float32LE serializes the samples as little-endian float32, the device format
func (b *Buffer) Float32LE() []byte {
	out := make([]byte, len(b.Samples)*4)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

// DecodeBase64 decodes a base64 payload of 16-bit little-endian PCM
func DecodeBase64(payload string) ([]float32, error) {
	if payload == "" {
		return nil, playbackError("decode", ErrNoAudio)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, playbackError("decode", fmt.Errorf("%w: %v", ErrMalformedPCM, err))
	}
	return Decode(data)
}

// Decode interprets data as signed 16-bit little-endian samples and
// normalizes them by 32768, so -32768 maps to -1.0 and 32767 to 0.99997
func Decode(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, playbackError("decode", ErrNoAudio)
	}
	if len(data)%BytesPerSample != 0 {
		return nil, playbackError("decode", fmt.Errorf("%w: length %d is not a multiple of %d", ErrMalformedPCM, len(data), BytesPerSample))
	}

	samples := make([]float32, len(data)/BytesPerSample)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*BytesPerSample:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

// EncodeInt16 serializes samples as 16-bit little-endian PCM
func EncodeInt16(samples []int16) []byte {
	out := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*BytesPerSample:], uint16(s))
	}
	return out
}
