package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// maxLogMessages bounds the lines kept by a LogViewer
const maxLogMessages = 1000

// LogViewer is a widget that displays log messages, newest first.
// It is an io.Writer so it can be attached to the logger with logging.Tee.
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	dispatch   func(func())

	mu       sync.Mutex
	messages []string
}

// NewLogViewer creates a new log viewer widget. dispatch runs UI updates on
// the main goroutine.
func NewLogViewer(dispatch func(func())) *LogViewer {
	v := &LogViewer{dispatch: dispatch}

	// Read-only multiline entry so lines can still be selected and copied
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(600, 300))

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// Write implements io.Writer. Every non-empty line becomes a message.
func (v *LogViewer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			v.AddMessage(line)
		}
	}
	return len(p), nil
}

// AddMessage adds a message to the top of the log
func (v *LogViewer) AddMessage(message string) {
	v.mu.Lock()
	v.messages = append([]string{message}, v.messages...)
	if len(v.messages) > maxLogMessages {
		v.messages = v.messages[:maxLogMessages]
	}
	text := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	v.dispatch(func() {
		v.logEntry.SetText(text)
		v.scrollView.Offset = fyne.NewPos(0, 0)
		v.scrollView.Refresh()
	})
}

// Messages returns the kept messages, newest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = v.messages[:0]
	v.mu.Unlock()

	v.dispatch(func() {
		v.logEntry.SetText("")
		v.scrollView.Offset = fyne.NewPos(0, 0)
		v.scrollView.Refresh()
	})
}
