package types

// Stage is the ordered pipeline position of an article.
type Stage string

const (
	StageInput      Stage = "input"
	StageResearch   Stage = "research"
	StageGeneration Stage = "generation"
	StageCover      Stage = "cover"
	StageReview     Stage = "review"
	StagePublishing Stage = "publishing"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// stageTransitions whitelists legal advancement. The cover stage may advance
// straight to publishing (the cover worker skips review), and any non-terminal
// stage may move to failed.
var stageTransitions = map[Stage][]Stage{
	StageInput:      {StageResearch},
	StageResearch:   {StageGeneration},
	StageGeneration: {StageCover},
	StageCover:      {StageReview, StagePublishing},
	StageReview:     {StagePublishing},
	StagePublishing: {StageCompleted},
	StageCompleted:  {},
	StageFailed:     {},
}

var stageOrder = map[Stage]int{
	StageInput:      0,
	StageResearch:   1,
	StageGeneration: 2,
	StageCover:      3,
	StageReview:     4,
	StagePublishing: 5,
	StageCompleted:  6,
}

// Before reports whether s comes earlier than other in pipeline order.
// Failed has no position and is never before anything.
func (s Stage) Before(other Stage) bool {
	si, ok1 := stageOrder[s]
	oi, ok2 := stageOrder[other]
	return ok1 && ok2 && si < oi
}

// Valid reports whether s is a known pipeline stage.
func (s Stage) Valid() bool {
	_, ok := stageTransitions[s]
	return ok
}

// Terminal reports whether no further advancement is possible.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanAdvanceTo reports whether moving from s to next is a legal transition.
func (s Stage) CanAdvanceTo(next Stage) bool {
	if next == StageFailed {
		return !s.Terminal()
	}
	for _, t := range stageTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
