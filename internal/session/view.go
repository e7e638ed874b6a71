package session

// View is the screen the session is on
type View int

const (
	ViewHome View = iota
	ViewLoading
	ViewLearning
	ViewQuiz
	ViewError
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewLoading:
		return "loading"
	case ViewLearning:
		return "learning"
	case ViewQuiz:
		return "quiz"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}
