package entity

type Stage string

const (
	StageLogo   Stage = "logo"
	StageRoast  Stage = "roast"
	StageRender Stage = "render"
	StageDone   Stage = "done"
	StageError  Stage = "error"
)

type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives pipeline progress. A nil ProgressFunc is allowed.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) Emit(stage Stage, message string) {
	if f != nil {
		f(ProgressEvent{Stage: stage, Message: message})
	}
}
