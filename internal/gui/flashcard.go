package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/merhaba/internal/session"
)

// Flashcard shows one word. The front has the Turkish word, tapping the
// card turns it over to the meaning and example sentence.
type Flashcard struct {
	widget.BaseWidget

	container *fyne.Container
	front     *fyne.Container
	back      *fyne.Container

	progress           *widget.Label
	turkish            *widget.RichText
	pronunciation      *widget.Label
	chinese            *widget.RichText
	example            *widget.Label
	exampleTranslation *widget.Label

	playWordButton    *ttwidget.Button
	playExampleButton *ttwidget.Button
	flipButton        *ttwidget.Button
	prevButton        *ttwidget.Button
	nextButton        *ttwidget.Button

	flipped bool

	OnFlip func()
	OnPrev func()
	OnNext func()
}

// NewFlashcard creates the learning view. player guards playWord and
// playExample so only one of them runs at a time.
func NewFlashcard(player *AudioPlayer, playWord, playExample PlayFunc) *Flashcard {
	f := &Flashcard{
		progress:           widget.NewLabel(""),
		turkish:            centeredText("", widget.RichTextStyleHeading),
		pronunciation:      widget.NewLabel(""),
		chinese:            centeredText("", widget.RichTextStyleHeading),
		example:            widget.NewLabel(""),
		exampleTranslation: widget.NewLabel(""),
	}
	f.pronunciation.Alignment = fyne.TextAlignCenter
	f.pronunciation.TextStyle = fyne.TextStyle{Italic: true}
	f.example.Alignment = fyne.TextAlignCenter
	f.example.Wrapping = fyne.TextWrapWord
	f.exampleTranslation.Alignment = fyne.TextAlignCenter
	f.exampleTranslation.Wrapping = fyne.TextWrapWord

	f.playWordButton = player.NewButton("播放單字", "播放發音 (P)", playWord)
	f.playExampleButton = player.NewButton("", "播放例句發音 (E)", playExample)

	f.flipButton = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), f.flip)
	f.flipButton.SetToolTip("翻面 (Space)")

	f.prevButton = ttwidget.NewButtonWithIcon("上一個", theme.NavigateBackIcon(), func() {
		if f.OnPrev != nil {
			f.OnPrev()
		}
	})
	f.prevButton.SetToolTip("上一個 (←)")

	f.nextButton = ttwidget.NewButtonWithIcon("下一個", theme.NavigateNextIcon(), func() {
		if f.OnNext != nil {
			f.OnNext()
		}
	})
	f.nextButton.Importance = widget.HighImportance
	f.nextButton.IconPlacement = widget.ButtonIconTrailingText
	f.nextButton.SetToolTip("下一個 (→)")

	f.front = container.NewVBox(
		badge("Turkish"),
		layout.NewSpacer(),
		f.turkish,
		f.pronunciation,
		container.NewCenter(f.playWordButton),
		layout.NewSpacer(),
		hint("點擊卡片翻面查看解釋"),
	)

	f.back = container.NewVBox(
		badge("Meaning"),
		layout.NewSpacer(),
		f.chinese,
		container.NewBorder(nil, nil, nil, f.playExampleButton, f.example),
		f.exampleTranslation,
		layout.NewSpacer(),
	)
	f.back.Hide()

	header := container.NewBorder(nil, nil, widget.NewLabel("單字卡"), container.NewHBox(f.progress, f.flipButton))
	nav := container.NewBorder(nil, nil, f.prevButton, f.nextButton)

	f.container = container.NewBorder(header, nav, nil, nil,
		container.NewPadded(container.NewStack(f.front, f.back)))

	f.ExtendBaseWidget(f)
	return f
}

// CreateRenderer implements fyne.Widget
func (f *Flashcard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(f.container)
}

// Tapped turns the card over
func (f *Flashcard) Tapped(*fyne.PointEvent) {
	f.flip()
}

func (f *Flashcard) flip() {
	if f.OnFlip != nil {
		f.OnFlip()
	}
}

// Update shows the card of a learning snapshot
func (f *Flashcard) Update(s session.Snapshot) {
	word, _ := s.Card()
	f.progress.SetText(s.Progress())

	setText(f.turkish, word.Turkish)
	f.pronunciation.SetText(fmt.Sprintf("/%s/", word.Pronunciation))
	setText(f.chinese, word.Chinese)
	f.example.SetText(fmt.Sprintf("\"%s\"", word.ExampleSentence))
	f.exampleTranslation.SetText(word.ExampleTranslation)

	if s.IsFirst() {
		f.prevButton.Disable()
	} else {
		f.prevButton.Enable()
	}
	if s.IsLast() {
		f.nextButton.SetText("開始測驗")
	} else {
		f.nextButton.SetText("下一個")
	}

	f.flipped = s.Flipped
	if s.Flipped {
		f.front.Hide()
		f.back.Show()
	} else {
		f.back.Hide()
		f.front.Show()
	}
}

// Flipped reports whether the meaning side is shown
func (f *Flashcard) Flipped() bool {
	return f.flipped
}

func badge(text string) *fyne.Container {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	l.Importance = widget.LowImportance
	return container.NewHBox(layout.NewSpacer(), l)
}

func hint(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.Alignment = fyne.TextAlignCenter
	l.Importance = widget.LowImportance
	return l
}
