package gui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/merhaba/internal/session"
)

// PlayFunc starts a playback and returns once it is playing or has failed
type PlayFunc func(ctx context.Context) error

// AudioPlayer allows at most one manual playback at a time for the buttons
// it creates. Failures are reported through onError; the playback pipeline
// itself never queues.
type AudioPlayer struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	dispatch func(func())
	onError  func(error)

	isPlaying atomic.Bool
	buttons   []*ttwidget.Button
}

// NewAudioPlayer creates a player bound to the lifetime of ctx.
// dispatch runs UI updates on the main goroutine.
func NewAudioPlayer(ctx context.Context, wg *sync.WaitGroup, dispatch func(func()), onError func(error)) *AudioPlayer {
	return &AudioPlayer{ctx: ctx, wg: wg, dispatch: dispatch, onError: onError}
}

// NewButton creates a play button with a tooltip that calls play when tapped
func (p *AudioPlayer) NewButton(label, tooltip string, play PlayFunc) *ttwidget.Button {
	b := ttwidget.NewButtonWithIcon(label, theme.MediaPlayIcon(), func() {
		p.Play(play)
	})
	b.SetToolTip(tooltip)
	p.buttons = append(p.buttons, b)
	return b
}

// IsPlaying reports whether a manual playback is in flight
func (p *AudioPlayer) IsPlaying() bool {
	return p.isPlaying.Load()
}

// Play starts play in the background unless a playback is already running.
// It must be called from the UI goroutine.
func (p *AudioPlayer) Play(play PlayFunc) bool {
	if !p.isPlaying.CompareAndSwap(false, true) {
		return false
	}
	p.setPlaying(true)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := play(p.ctx)
		p.isPlaying.Store(false)
		p.dispatch(func() { p.setPlaying(false) })

		switch {
		case err == nil, errors.Is(err, context.Canceled), errors.Is(err, session.ErrNothingToPlay):
		default:
			p.onError(err)
		}
	}()
	return true
}

func (p *AudioPlayer) setPlaying(playing bool) {
	importance := widget.MediumImportance
	icon := theme.MediaPlayIcon()
	if playing {
		importance = widget.HighImportance
		icon = theme.VolumeUpIcon()
	}
	for _, b := range p.buttons {
		b.Importance = importance
		b.SetIcon(icon)
	}
}
