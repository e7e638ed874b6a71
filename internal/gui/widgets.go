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
	"codeberg.org/snonux/merhaba/internal/vocab"
)

// categoryColumns is the width of the home screen grid
const categoryColumns = 3

// centeredText creates a single-segment rich text in the given style
func centeredText(text string, style widget.RichTextStyle) *widget.RichText {
	style.Alignment = fyne.TextAlignCenter
	return widget.NewRichText(&widget.TextSegment{Text: text, Style: style})
}

// setText replaces the text of a rich text created by centeredText
func setText(rt *widget.RichText, text string) {
	if len(rt.Segments) == 0 {
		return
	}
	if seg, ok := rt.Segments[0].(*widget.TextSegment); ok && seg.Text != text {
		seg.Text = text
		rt.Refresh()
	}
}

func textOf(rt *widget.RichText) string {
	if len(rt.Segments) == 0 {
		return ""
	}
	return rt.Segments[0].Textual()
}

// CategoryGrid lists the lesson topics
type CategoryGrid struct {
	widget.BaseWidget

	container *fyne.Container
	buttons   []*widget.Button

	// OnSelect is called with the tapped category
	OnSelect func(vocab.Category)
}

// NewCategoryGrid creates the home screen for categories
func NewCategoryGrid(categories []vocab.Category) *CategoryGrid {
	g := &CategoryGrid{}

	grid := container.NewGridWithColumns(categoryColumns)
	for _, c := range categories {
		b := widget.NewButton(fmt.Sprintf("%s  %s", c.Emoji, c.DisplayName()), func() {
			if g.OnSelect != nil {
				g.OnSelect(c)
			}
		})
		g.buttons = append(g.buttons, b)
		grid.Add(b)
	}

	header := container.NewVBox(
		centeredText("你好! Merhaba!", widget.RichTextStyleHeading),
		centeredText("請選擇一個主題開始學習土耳其語單字。", widget.RichTextStyleParagraph),
	)
	g.container = container.NewBorder(header, nil, nil, nil, container.NewVScroll(grid))

	g.ExtendBaseWidget(g)
	return g
}

// CreateRenderer implements fyne.Widget
func (g *CategoryGrid) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.container)
}

// SetEnabled enables or disables every category button
func (g *CategoryGrid) SetEnabled(enabled bool) {
	for _, b := range g.buttons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// LoadingView is shown while a lesson is generated
type LoadingView struct {
	widget.BaseWidget

	container *fyne.Container
	message   *widget.Label
}

// NewLoadingView creates the loading screen
func NewLoadingView() *LoadingView {
	v := &LoadingView{message: widget.NewLabel("")}
	v.message.Alignment = fyne.TextAlignCenter
	v.message.Wrapping = fyne.TextWrapWord

	v.container = container.NewVBox(
		layout.NewSpacer(),
		widget.NewProgressBarInfinite(),
		v.message,
		layout.NewSpacer(),
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LoadingView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// SetMessage sets the text under the progress bar
func (v *LoadingView) SetMessage(msg string) {
	v.message.SetText(msg)
}

// ErrorView shows a failed lesson with a way back home
type ErrorView struct {
	widget.BaseWidget

	container  *fyne.Container
	message    *widget.Label
	homeButton *ttwidget.Button
}

// NewErrorView creates the error screen; onHome resets the session
func NewErrorView(onHome func()) *ErrorView {
	v := &ErrorView{message: widget.NewLabel("")}
	v.message.Alignment = fyne.TextAlignCenter
	v.message.Wrapping = fyne.TextWrapWord

	v.homeButton = ttwidget.NewButtonWithIcon("回首頁重試", theme.HomeIcon(), onHome)
	v.homeButton.Importance = widget.HighImportance

	v.container = container.NewVBox(
		layout.NewSpacer(),
		centeredText("⚠️", widget.RichTextStyleHeading),
		centeredText("出錯了", widget.RichTextStyleSubHeading),
		v.message,
		container.NewCenter(v.homeButton),
		layout.NewSpacer(),
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ErrorView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// SetMessage sets the user facing error text
func (v *ErrorView) SetMessage(msg string) {
	v.message.SetText(msg)
}

// ResultView shows the final quiz score
type ResultView struct {
	widget.BaseWidget

	container  *fyne.Container
	score      *widget.RichText
	percentage *widget.Label

	restartButton *ttwidget.Button
	homeButton    *ttwidget.Button
}

// NewResultView creates the quiz result screen
func NewResultView(onRestart, onHome func()) *ResultView {
	v := &ResultView{
		score:      centeredText("", widget.RichTextStyleHeading),
		percentage: widget.NewLabel(""),
	}
	v.percentage.Alignment = fyne.TextAlignCenter

	v.restartButton = ttwidget.NewButtonWithIcon("再次練習這個單元", theme.MediaReplayIcon(), onRestart)
	v.restartButton.Importance = widget.HighImportance
	v.homeButton = ttwidget.NewButtonWithIcon("選擇新主題", theme.HomeIcon(), onHome)

	v.container = container.NewVBox(
		layout.NewSpacer(),
		centeredText("🎉", widget.RichTextStyleHeading),
		centeredText("測驗完成!", widget.RichTextStyleSubHeading),
		centeredText("Harika! (太棒了!)", widget.RichTextStyleParagraph),
		v.score,
		v.percentage,
		v.restartButton,
		v.homeButton,
		layout.NewSpacer(),
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *ResultView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// Update shows the score of a finished quiz
func (v *ResultView) Update(q session.QuizSnapshot) {
	setText(v.score, fmt.Sprintf("%d / %d", q.Score, q.Total))
	v.percentage.SetText(fmt.Sprintf("正確率: %d%%", q.Percentage()))
}
