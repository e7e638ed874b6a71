package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/merhaba/internal"
	"codeberg.org/snonux/merhaba/internal/audio"
	"codeberg.org/snonux/merhaba/internal/breaker"
	"codeberg.org/snonux/merhaba/internal/logging"
	"codeberg.org/snonux/merhaba/internal/session"
	"codeberg.org/snonux/merhaba/internal/vocab"
)

const (
	// PlaybackFailedMessage is shown when a playback the user asked for fails
	PlaybackFailedMessage = "播放失敗，請檢查網路連線或稍後再試。"
	// SpeechUnavailableMessage is shown while the speech service is failing fast
	SpeechUnavailableMessage = "語音服務暫時無法使用，請稍後再試。"
)

// Config holds GUI application configuration
type Config struct {
	Session    *session.Session
	Categories []vocab.Category

	// Audio is suspended while the window is in the background. Optional.
	Audio *audio.DeviceSource

	// App overrides the Fyne application, used by tests
	App fyne.App
}

// Application represents the main GUI application
type Application struct {
	app    fyne.App
	window fyne.Window
	config *Config
	logger *log.Logger

	session *session.Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// dispatch runs f on the UI goroutine
	dispatch func(f func())

	mu       sync.Mutex
	rendered uint64
	current  session.Snapshot

	body        *fyne.Container
	statusLabel *widget.Label
	homeButton  *ttwidget.Button
	logButton   *ttwidget.Button
	helpButton  *ttwidget.Button

	logs       *LogViewer
	logWindow  fyne.Window
	restoreLog func()
	closeOnce  sync.Once

	categories *CategoryGrid
	loading    *LoadingView
	flashcard  *Flashcard
	quiz       *QuizView
	result     *ResultView
	errorView  *ErrorView

	cardPlayer *AudioPlayer
	quizPlayer *AudioPlayer
}

// New creates a new GUI application for the session in config
func New(config *Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	fyneApp := config.App
	if fyneApp == nil {
		fyneApp = app.NewWithID("org.codeberg.snonux.merhaba")
	}
	fyneApp.SetIcon(GetAppIcon())

	a := &Application{
		app:      fyneApp,
		config:   config,
		logger:   log.WithPrefix("gui"),
		session:  config.Session,
		ctx:      ctx,
		cancel:   cancel,
		dispatch: fyne.Do,
	}

	a.setupUI()
	a.setupLifecycle()
	a.restoreLog = logging.Tee(a.logs)

	initial := a.session.Snapshot()
	a.rendered = initial.Version
	a.show(initial)

	a.session.OnChange(func(s session.Snapshot) {
		a.dispatch(func() { a.apply(s) })
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Merhaba v%s - Turkish Vocabulary", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(520, 720))
	a.window.SetMaster()

	a.cardPlayer = NewAudioPlayer(a.ctx, &a.wg, a.runOnUI, a.showPlaybackError)
	a.quizPlayer = NewAudioPlayer(a.ctx, &a.wg, a.runOnUI, a.showPlaybackError)

	a.categories = NewCategoryGrid(a.config.Categories)
	a.categories.OnSelect = a.onSelect

	a.loading = NewLoadingView()

	a.flashcard = NewFlashcard(a.cardPlayer, a.session.PlayCurrent, a.session.PlayExample)
	a.flashcard.OnFlip = a.session.Flip
	a.flashcard.OnPrev = a.session.Prev
	a.flashcard.OnNext = a.session.Next

	a.quiz = NewQuizView(a.quizPlayer, a.session.PlayCurrent)
	a.quiz.OnAnswer = func(option string) { a.session.Answer(option) }

	a.result = NewResultView(a.session.Restart, a.session.Home)
	a.errorView = NewErrorView(a.session.Home)

	a.homeButton = ttwidget.NewButtonWithIcon("", theme.HomeIcon(), a.session.Home)
	a.logButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onShowLogs)
	a.helpButton = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)
	a.logs = NewLogViewer(a.runOnUI)

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	title := widget.NewLabel("Merhaba! 土耳其語單字")
	title.TextStyle = fyne.TextStyle{Bold: true}

	toolbar := container.NewHBox(a.homeButton, title, layout.NewSpacer(), a.logButton, a.helpButton)

	a.body = container.NewStack()
	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		a.statusLabel,
		nil, nil,
		container.NewPadded(a.body),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.homeButton.SetToolTip("回首頁 (B)")
	a.logButton.SetToolTip("Show log (L)")
	a.helpButton.SetToolTip("Show hotkeys (H)")

	a.window.SetOnClosed(a.Close)

	a.setupKeyboardShortcuts()
}

// setupLifecycle suspends audio output while the window is in the background.
// The next playback resumes it.
func (a *Application) setupLifecycle() {
	a.app.Lifecycle().SetOnExitedForeground(a.suspendAudio)
}

func (a *Application) suspendAudio() {
	if a.config.Audio == nil {
		return
	}
	device := a.config.Audio.Opened()
	if device == nil || device.Suspended() {
		return
	}
	if err := device.Suspend(); err != nil {
		a.logger.Warn("Failed to suspend audio", "error", err)
		return
	}
	a.logger.Debug("Audio suspended")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// Close cancels manual playbacks, waits for them and detaches the log viewer
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.wg.Wait()
		if a.restoreLog != nil {
			a.restoreLog()
		}
		if a.logWindow != nil {
			a.logWindow.Close()
		}
	})
}

// onShowLogs opens the log window; closing it only hides it
func (a *Application) onShowLogs() {
	if a.logWindow == nil {
		a.logWindow = a.app.NewWindow("Merhaba - Log")
		a.logWindow.SetContent(a.logs)
		a.logWindow.SetCloseIntercept(a.logWindow.Hide)
	}
	a.logWindow.Show()
}

// apply renders s unless a newer snapshot has been rendered already
func (a *Application) apply(s session.Snapshot) {
	a.mu.Lock()
	if s.Version <= a.rendered {
		a.mu.Unlock()
		return
	}
	a.rendered = s.Version
	a.mu.Unlock()

	a.show(s)
}

// show switches the window body to the view of s
func (a *Application) show(s session.Snapshot) {
	a.mu.Lock()
	a.current = s
	a.mu.Unlock()

	a.categories.SetEnabled(s.View == session.ViewHome)
	if s.View == session.ViewHome {
		a.homeButton.Disable()
	} else {
		a.homeButton.Enable()
	}

	switch s.View {
	case session.ViewHome:
		a.setBody(a.categories)
		a.updateStatus("請選擇一個主題")
	case session.ViewLoading:
		a.loading.SetMessage(s.LoadingMessage())
		a.setBody(a.loading)
		a.updateStatus("Generating lesson...")
	case session.ViewLearning:
		a.flashcard.Update(s)
		a.setBody(a.flashcard)
		a.updateStatus(a.lessonStatus(s))
	case session.ViewQuiz:
		if s.Quiz == nil {
			return
		}
		if s.Quiz.Finished {
			a.result.Update(*s.Quiz)
			a.setBody(a.result)
		} else {
			a.quiz.Update(*s.Quiz)
			a.setBody(a.quiz)
		}
		a.updateStatus(fmt.Sprintf("%s - 得分 %d / %d", a.lessonStatus(s), s.Quiz.Score, s.Quiz.AnsweredCount))
	case session.ViewError:
		a.errorView.SetMessage(s.ErrorMessage)
		a.setBody(a.errorView)
		a.updateStatus("")
	}
}

func (a *Application) lessonStatus(s session.Snapshot) string {
	if s.Category == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", s.Category.Emoji, s.Category.DisplayName())
}

func (a *Application) setBody(obj fyne.CanvasObject) {
	if len(a.body.Objects) == 1 && a.body.Objects[0] == obj {
		obj.Refresh()
		return
	}
	a.body.Objects = []fyne.CanvasObject{obj}
	a.body.Refresh()
}

// Snapshot returns the session state currently on screen
func (a *Application) Snapshot() session.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// onSelect starts a lesson for the tapped category
func (a *Application) onSelect(c vocab.Category) {
	if err := a.session.Select(c); err != nil {
		if errors.Is(err, session.ErrBusy) {
			a.logger.Debug("Ignoring selection while busy", "category", c.ID)
			return
		}
		dialog.ShowError(err, a.window)
	}
}

// showPlaybackError reports a failed manual playback. Safe from any goroutine.
func (a *Application) showPlaybackError(err error) {
	a.logger.Error("Manual playback failed", "error", err)
	message := playbackMessage(err)
	a.runOnUI(func() {
		dialog.ShowError(errors.New(message), a.window)
	})
}

func playbackMessage(err error) string {
	if breaker.IsOpen(err) {
		return SpeechUnavailableMessage
	}
	return PlaybackFailedMessage
}

func (a *Application) runOnUI(f func()) {
	a.dispatch(f)
}

// updateStatus updates the status label
func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}
