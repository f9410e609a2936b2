package types

import "testing"

func TestStageCanAdvanceTo(t *testing.T) {
	cases := []struct {
		name string
		from Stage
		to   Stage
		want bool
	}{
		{"input to research", StageInput, StageResearch, true},
		{"research to generation", StageResearch, StageGeneration, true},
		{"generation to cover", StageGeneration, StageCover, true},
		{"cover to review", StageCover, StageReview, true},
		{"cover skips review", StageCover, StagePublishing, true},
		{"review to publishing", StageReview, StagePublishing, true},
		{"publishing to completed", StagePublishing, StageCompleted, true},
		{"input cannot skip to generation", StageInput, StageGeneration, false},
		{"research cannot skip to cover", StageResearch, StageCover, false},
		{"no going backwards", StageCover, StageResearch, false},
		{"completed is terminal", StageCompleted, StagePublishing, false},
		{"failed is terminal", StageFailed, StageResearch, false},
		{"any active stage can fail", StageGeneration, StageFailed, true},
		{"input can fail", StageInput, StageFailed, true},
		{"completed cannot fail", StageCompleted, StageFailed, false},
		{"failed cannot fail again", StageFailed, StageFailed, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.from.CanAdvanceTo(c.to); got != c.want {
				t.Fatalf("%s.CanAdvanceTo(%s) = %v; want %v", c.from, c.to, got, c.want)
			}
		})
	}
}

func TestStageBefore(t *testing.T) {
	if !StageInput.Before(StageCompleted) {
		t.Fatalf("input should be before completed")
	}
	if StageCover.Before(StageResearch) {
		t.Fatalf("cover should not be before research")
	}
	if StageCover.Before(StageCover) {
		t.Fatalf("a stage is not before itself")
	}
	// Failed has no pipeline position
	if StageFailed.Before(StageCompleted) || StageInput.Before(StageFailed) {
		t.Fatalf("failed must not participate in ordering")
	}
}

func TestStageValidAndTerminal(t *testing.T) {
	for _, s := range []Stage{StageInput, StageResearch, StageGeneration, StageCover, StageReview, StagePublishing, StageCompleted, StageFailed} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if Stage("shipping").Valid() {
		t.Fatalf("unknown stage should be invalid")
	}
	if !StageCompleted.Terminal() || !StageFailed.Terminal() {
		t.Fatalf("completed and failed are terminal")
	}
	if StagePublishing.Terminal() {
		t.Fatalf("publishing is not terminal")
	}
}
