package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/merhaba/internal/session"
)

var hotkeys = [][2]string{
	{"← / →", "Previous / next card"},
	{"Space", "Flip card"},
	{"P", "Play word"},
	{"E", "Play example sentence"},
	{"1-4", "Answer quiz question"},
	{"R", "Practise the lesson again (after the quiz)"},
	{"B", "Back to the categories"},
	{"L", "Show log"},
	{"H", "Show hotkeys"},
	{"Q", "Quit"},
}

// setupKeyboardShortcuts routes key presses to the session
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(a.handleRune)
	a.window.Canvas().SetOnTypedKey(a.handleKey)
}

// handleRune handles character shortcuts
func (a *Application) handleRune(r rune) {
	s := a.Snapshot()

	switch r {
	case 'p', 'P':
		a.playCurrent(s)
	case 'e', 'E':
		if s.View == session.ViewLearning {
			a.cardPlayer.Play(a.session.PlayExample)
		}
	case ' ':
		a.session.Flip()
	case '1', '2', '3', '4':
		if s.View == session.ViewQuiz {
			if option, ok := a.quiz.Option(int(r - '1')); ok {
				a.session.Answer(option)
			}
		}
	case 'r', 'R':
		if s.Quiz != nil && s.Quiz.Finished {
			a.session.Restart()
		}
	case 'b', 'B':
		if s.View != session.ViewHome {
			a.session.Home()
		}
	case 'l', 'L':
		a.onShowLogs()
	case 'h', 'H', '?':
		a.onShowHotkeys()
	case 'q', 'Q':
		a.window.Close()
	}
}

// handleKey handles navigation keys
func (a *Application) handleKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyLeft:
		a.session.Prev()
	case fyne.KeyRight:
		a.session.Next()
	case fyne.KeyUp, fyne.KeyDown:
		a.session.Flip()
	}
}

func (a *Application) playCurrent(s session.Snapshot) {
	switch s.View {
	case session.ViewLearning:
		a.cardPlayer.Play(a.session.PlayCurrent)
	case session.ViewQuiz:
		a.quizPlayer.Play(a.session.PlayCurrent)
	}
}

// onShowHotkeys lists the keyboard shortcuts
func (a *Application) onShowHotkeys() {
	var b strings.Builder
	for _, hk := range hotkeys {
		b.WriteString(hk[0])
		b.WriteString("\t")
		b.WriteString(hk[1])
		b.WriteString("\n")
	}
	text := widget.NewLabel(strings.TrimSpace(b.String()))
	dialog.ShowCustom("Hotkeys", "Close", text, a.window)
}
