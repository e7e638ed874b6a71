package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/merhaba/internal/session"
)

// QuizView asks for the meaning of each word in turn
type QuizView struct {
	widget.BaseWidget

	container *fyne.Container
	progress  *widget.ProgressBar
	counter   *widget.Label
	question  *widget.RichText
	replay    *ttwidget.Button
	options   *fyne.Container

	optionButtons []*widget.Button
	shown         session.QuizSnapshot

	// OnAnswer is called with the tapped option
	OnAnswer func(string)
}

// NewQuizView creates the quiz screen; replay speaks the question again
func NewQuizView(player *AudioPlayer, replay PlayFunc) *QuizView {
	q := &QuizView{
		progress: widget.NewProgressBar(),
		counter:  widget.NewLabel(""),
		question: centeredText("", widget.RichTextStyleHeading),
		options:  container.NewVBox(),
	}
	q.progress.TextFormatter = func() string { return "" }
	q.replay = player.NewButton("重聽發音", "重聽發音 (P)", replay)

	prompt := widget.NewLabel("這個單字是什麼意思?")
	prompt.Alignment = fyne.TextAlignCenter
	prompt.Importance = widget.LowImportance

	header := container.NewBorder(nil, nil, widget.NewLabel("Quiz Mode"), q.counter, q.progress)
	q.container = container.NewBorder(header, nil, nil, nil,
		container.NewVBox(
			prompt,
			q.question,
			container.NewCenter(q.replay),
			widget.NewSeparator(),
			q.options,
		))

	q.ExtendBaseWidget(q)
	return q
}

// CreateRenderer implements fyne.Widget
func (q *QuizView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(q.container)
}

// Update shows the current question. Once answered, the correct option is
// marked green, a wrong choice red and the rest are disabled.
func (q *QuizView) Update(s session.QuizSnapshot) {
	q.shown = s
	setText(q.question, s.Question)
	q.counter.SetText(fmt.Sprintf("%d / %d", s.QuestionIndex+1, s.Total))
	if s.Total > 0 {
		q.progress.SetValue(float64(s.QuestionIndex+1) / float64(s.Total))
	}

	q.optionButtons = q.optionButtons[:0]
	objects := make([]fyne.CanvasObject, 0, len(s.Options))
	for i, option := range s.Options {
		b := widget.NewButton(fmt.Sprintf("%d. %s", i+1, option), func() {
			if q.OnAnswer != nil {
				q.OnAnswer(option)
			}
		})
		if s.Answered {
			switch option {
			case s.Correct:
				b.Importance = widget.SuccessImportance
			case s.Selected:
				b.Importance = widget.DangerImportance
			default:
				b.Disable()
			}
		}
		q.optionButtons = append(q.optionButtons, b)
		objects = append(objects, b)
	}
	q.options.Objects = objects
	q.options.Refresh()
}

// Option returns the text of the option at index, if any
func (q *QuizView) Option(index int) (string, bool) {
	if index < 0 || index >= len(q.shown.Options) {
		return "", false
	}
	return q.shown.Options[index], true
}
