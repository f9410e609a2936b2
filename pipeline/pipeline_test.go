package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vetalione/content-pipeline/ai"
	"github.com/vetalione/content-pipeline/publish"
	"github.com/vetalione/content-pipeline/store"
	"github.com/vetalione/content-pipeline/types"
)

type fakeResearch struct {
	content   string
	citations []string
	err       error
	calls     int
}

func (f *fakeResearch) Research(ctx context.Context, celebrityName string) (string, []string, error) {
	f.calls++
	return f.content, f.citations, f.err
}

func (f *fakeResearch) Name() string { return "fake" }

type fakeRepairer struct {
	repaired string
	err      error
	calls    int
}

func (f *fakeRepairer) RepairJSON(ctx context.Context, broken, celebrityName string) (string, error) {
	f.calls++
	return f.repaired, f.err
}

type fakeGenerator struct {
	output string
	err    error
	style  ai.GenerationStyle
	calls  int
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, celebrityName, researchJSON string, style ai.GenerationStyle) (string, error) {
	f.calls++
	f.style = style
	return f.output, f.err
}

type recordingTracker struct {
	states []string
}

func (r *recordingTracker) MarkActive(ctx context.Context, jobID string) error {
	r.states = append(r.states, "active")
	return nil
}

func (r *recordingTracker) MarkCompleted(ctx context.Context, jobID string) error {
	r.states = append(r.states, "completed")
	return nil
}

func (r *recordingTracker) MarkFailed(ctx context.Context, jobID string, err error) error {
	r.states = append(r.states, "failed")
	return nil
}

func (r *recordingTracker) MarkDead(ctx context.Context, jobID string, err error) error {
	r.states = append(r.states, "dead")
	return nil
}

func (r *recordingTracker) last(t *testing.T) string {
	t.Helper()
	if len(r.states) == 0 {
		t.Fatalf("tracker recorded no states")
	}
	return r.states[len(r.states)-1]
}

const researchPayload = "```json\n" + `{
	"failures": [
		{"number": 1, "title": "The flop album", "year": "2001", "description": "Sold nothing.", "outcome": "Label dropped them.", "severity": 4, "source": "Billboard"}
	],
	"quotes": [{"text": "Worst year of my life.", "year": "2002", "source": "Interview"}],
	"sources": ["https://a.example", "https://b.example"]
}` + "\n```"

func seedArticle(t *testing.T, st *store.MemoryStore, stage types.Stage) *types.Article {
	t.Helper()
	ctx := context.Background()
	a := &types.Article{
		CelebrityName: "Test Person",
		Language:      types.LanguageRU,
		Status:        types.StatusDraft,
		CurrentStage:  types.StageInput,
	}
	if err := st.CreateArticle(ctx, a); err != nil {
		t.Fatalf("CreateArticle error: %v", err)
	}
	for _, next := range []types.Stage{types.StageResearch, types.StageGeneration, types.StageCover} {
		if a.CurrentStage == stage {
			break
		}
		if err := st.AdvanceStage(ctx, a.ID, next); err != nil {
			t.Fatalf("AdvanceStage to %s error: %v", next, err)
		}
		a.CurrentStage = next
	}
	return a
}

func TestResearchStage(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageInput)
	tracker := &recordingTracker{}

	w := NewWorkers(WorkersConfig{
		Store:    st,
		Research: &fakeResearch{content: researchPayload, citations: []string{"https://b.example", "https://c.example"}},
		Tracker:  tracker,
		Retry:    RetryPolicy{MaxAttempts: 1},
	})

	if err := w.Research(ctx, "job-1", &types.PipelineJob{ArticleID: a.ID, Stage: types.StageResearch}); err != nil {
		t.Fatalf("Research error: %v", err)
	}

	got, _ := st.GetArticle(ctx, a.ID)
	if got.CurrentStage != types.StageResearch {
		t.Fatalf("stage = %s; want research", got.CurrentStage)
	}
	if got.ResearchData == nil || len(got.ResearchData.Facts) != 1 {
		t.Fatalf("research data not saved: %+v", got.ResearchData)
	}
	if len(got.ResearchData.Sources) != 3 {
		t.Fatalf("sources should merge citations deduplicated, got %v", got.ResearchData.Sources)
	}
	if tracker.last(t) != "completed" {
		t.Fatalf("tracker states = %v; want final completed", tracker.states)
	}
}

func TestResearchRepairsMalformedPayload(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageInput)

	repairer := &fakeRepairer{repaired: researchPayload}
	w := NewWorkers(WorkersConfig{
		Store:    st,
		Research: &fakeResearch{content: `{"failures": [{"title": "broken",]`},
		Repairer: repairer,
		Retry:    RetryPolicy{MaxAttempts: 1},
	})

	if err := w.Research(ctx, "", &types.PipelineJob{ArticleID: a.ID}); err != nil {
		t.Fatalf("Research with repair error: %v", err)
	}
	if repairer.calls != 1 {
		t.Fatalf("repairer calls = %d; want 1", repairer.calls)
	}
	got, _ := st.GetArticle(ctx, a.ID)
	if got.ResearchData == nil {
		t.Fatalf("repaired research data not saved")
	}
}

func TestResearchFailsWithoutRepairer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageInput)

	w := NewWorkers(WorkersConfig{
		Store:    st,
		Research: &fakeResearch{content: "not json at all"},
		Retry:    RetryPolicy{MaxAttempts: 1},
	})

	if err := w.Research(ctx, "", &types.PipelineJob{ArticleID: a.ID}); err == nil {
		t.Fatalf("expected error for unparseable payload without repairer")
	}
	got, _ := st.GetArticle(ctx, a.ID)
	if got.ResearchData != nil || got.CurrentStage != types.StageInput {
		t.Fatalf("failed research must not mutate the article: %+v", got)
	}
}

// stalledResearch never answers; it only returns once its context is cancelled.
type stalledResearch struct{}

func (s *stalledResearch) Research(ctx context.Context, celebrityName string) (string, []string, error) {
	<-ctx.Done()
	return "", nil, ctx.Err()
}

func (s *stalledResearch) Name() string { return "stalled" }

func TestResearchTimesOutStalledProvider(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageInput)
	tracker := &recordingTracker{}

	w := NewWorkers(WorkersConfig{
		Store:           st,
		Research:        &stalledResearch{},
		Tracker:         tracker,
		ResearchTimeout: 10 * time.Millisecond,
		Retry:           RetryPolicy{MaxAttempts: 1},
	})

	err := w.Research(ctx, "job-slow", &types.PipelineJob{ArticleID: a.ID, Stage: types.StageResearch})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Research with stalled provider = %v; want deadline exceeded", err)
	}
	got, _ := st.GetArticle(ctx, a.ID)
	if got.ResearchData != nil || got.CurrentStage != types.StageInput {
		t.Fatalf("timed-out research must not mutate the article: %+v", got)
	}
	if tracker.last(t) != "dead" {
		t.Fatalf("tracker states = %v; want final dead", tracker.states)
	}
}

func TestGenerateRequiresResearchData(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageResearch)
	tracker := &recordingTracker{}
	gen := &fakeGenerator{output: `{}`}

	w := NewWorkers(WorkersConfig{
		Store:     st,
		Generator: gen,
		Tracker:   tracker,
		Retry:     RetryPolicy{MaxAttempts: 3},
	})

	err := w.Generate(ctx, "job-2", &types.PipelineJob{ArticleID: a.ID})
	if !errors.Is(err, ErrNoResearchData) {
		t.Fatalf("Generate without research = %v; want ErrNoResearchData", err)
	}
	// Precondition failures are permanent: no generator call, no retries.
	if gen.calls != 0 {
		t.Fatalf("generator called %d times; want 0", gen.calls)
	}
	if tracker.last(t) != "failed" {
		t.Fatalf("tracker states = %v; want final failed (not dead)", tracker.states)
	}
	got, _ := st.GetArticle(ctx, a.ID)
	if got.Content != nil || got.CurrentStage != types.StageResearch {
		t.Fatalf("article mutated on precondition failure: %+v", got)
	}
}

func TestGenerateMalformedOutputGoesDead(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageResearch)
	if err := st.SaveResearchData(ctx, a.ID, &types.ResearchData{Facts: []types.BiographyFact{{ID: "fact-1"}}}); err != nil {
		t.Fatalf("SaveResearchData error: %v", err)
	}
	tracker := &recordingTracker{}
	gen := &fakeGenerator{output: "definitely not JSON"}

	w := NewWorkers(WorkersConfig{
		Store:     st,
		Generator: gen,
		Tracker:   tracker,
		Retry:     RetryPolicy{MaxAttempts: 2},
	})

	err := w.Generate(ctx, "job-3", &types.PipelineJob{ArticleID: a.ID})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("Generate with malformed output = %v; want ErrRetriesExhausted", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d; want 2 (bounded retries)", gen.calls)
	}
	if tracker.last(t) != "dead" {
		t.Fatalf("tracker states = %v; want final dead", tracker.states)
	}
	got, _ := st.GetArticle(ctx, a.ID)
	if got.Content != nil {
		t.Fatalf("content must stay unset on failure")
	}
}

func TestGenerateStage(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageResearch)
	if err := st.SaveResearchData(ctx, a.ID, &types.ResearchData{Facts: []types.BiographyFact{{ID: "fact-1"}}}); err != nil {
		t.Fatalf("SaveResearchData error: %v", err)
	}
	gen := &fakeGenerator{output: `{
		"title": "10 failures",
		"intro": "intro",
		"sections": [{"title": "One", "content": "text"}, {"title": "Two", "content": "text"}],
		"conclusion": "outro"
	}`}

	w := NewWorkers(WorkersConfig{
		Store:     st,
		Generator: gen,
		Retry:     RetryPolicy{MaxAttempts: 1},
	})

	job := &types.PipelineJob{
		ArticleID:   a.ID,
		StyleConfig: &types.StyleConfig{Tone: "ironic", PointsCount: 10, IncludeQuotes: true},
	}
	if err := w.Generate(ctx, "", job); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if gen.style.Tone != "ironic" || gen.style.PointsCount != 10 {
		t.Fatalf("style not passed through: %+v", gen.style)
	}
	if gen.style.Language != "ru" {
		t.Fatalf("style language should default to the article's, got %q", gen.style.Language)
	}

	got, _ := st.GetArticle(ctx, a.ID)
	if got.CurrentStage != types.StageGeneration {
		t.Fatalf("stage = %s; want generation", got.CurrentStage)
	}
	if got.Content == nil || len(got.Content.Sections) != 2 {
		t.Fatalf("content not saved: %+v", got.Content)
	}
	if got.Content.Sections[0].ID != "section-1" || got.Content.Sections[1].Order != 2 {
		t.Fatalf("section ids/order not filled: %+v", got.Content.Sections)
	}
}

func TestCoverStageAdvancesToPublishing(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageGeneration)

	w := NewWorkers(WorkersConfig{
		Store: st,
		Retry: RetryPolicy{MaxAttempts: 1},
	})

	if err := w.Cover(ctx, "", &types.PipelineJob{ArticleID: a.ID, Template: "neon"}); err != nil {
		t.Fatalf("Cover error: %v", err)
	}

	got, _ := st.GetArticle(ctx, a.ID)
	if got.CurrentStage != types.StagePublishing {
		t.Fatalf("stage = %s; want publishing (cover skips review)", got.CurrentStage)
	}
	if got.CoverImage == nil || got.CoverImage.Template != "neon" {
		t.Fatalf("cover not recorded: %+v", got.CoverImage)
	}

	// Re-running is allowed: another cover row, stage stays put.
	if err := w.Cover(ctx, "", &types.PipelineJob{ArticleID: a.ID}); err != nil {
		t.Fatalf("second Cover error: %v", err)
	}
	if n := st.CoverCount(a.ID); n != 2 {
		t.Fatalf("CoverCount = %d; want 2", n)
	}
	got, _ = st.GetArticle(ctx, a.ID)
	if got.CurrentStage != types.StagePublishing {
		t.Fatalf("stage after rerun = %s; want publishing", got.CurrentStage)
	}
	if got.CoverImage.Template != "default" {
		t.Fatalf("article should carry the latest cover, got template %q", got.CoverImage.Template)
	}
}

type okPublisher struct{ platform types.Platform }

func (p okPublisher) Platform() types.Platform { return p.platform }

func (p okPublisher) Publish(ctx context.Context, a *types.Article, c *types.PlatformCustomization) (*publish.Result, error) {
	return &publish.Result{URL: "https://example.com/" + string(p.platform)}, nil
}

func TestPublishWorkerDispatchesAndMarksJob(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	a := seedArticle(t, st, types.StageCover)
	tracker := &recordingTracker{}

	d := publish.NewDispatcher(st, publish.NewRegistry(okPublisher{platform: types.PlatformTelegram}))
	w := NewWorkers(WorkersConfig{
		Store:     st,
		Tracker:   tracker,
		Publisher: d,
		Retry:     RetryPolicy{MaxAttempts: 1},
	})

	job := &types.PipelineJob{ArticleID: a.ID, Stage: types.StagePublishing, Platform: types.PlatformTelegram}
	if err := w.Publish(ctx, "job-pub", job); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	pubs, _ := st.ListPublications(ctx, a.ID)
	if len(pubs) != 1 || pubs[0].Status != types.PublicationPublished {
		t.Fatalf("publications = %+v; want one published row", pubs)
	}
	if tracker.last(t) != "completed" {
		t.Fatalf("tracker states = %v; want final completed", tracker.states)
	}
}

func TestPublishWorkerFailsForMissingArticle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tracker := &recordingTracker{}

	d := publish.NewDispatcher(st, publish.NewRegistry(okPublisher{platform: types.PlatformTelegram}))
	w := NewWorkers(WorkersConfig{
		Store:     st,
		Tracker:   tracker,
		Publisher: d,
		Retry:     RetryPolicy{MaxAttempts: 3},
	})

	err := w.Publish(ctx, "job-gone", &types.PipelineJob{ArticleID: "nope", Platform: types.PlatformTelegram})
	if !errors.Is(err, store.ErrArticleNotFound) {
		t.Fatalf("Publish for missing article = %v; want ErrArticleNotFound", err)
	}
	if tracker.last(t) != "failed" {
		t.Fatalf("tracker states = %v; want final failed", tracker.states)
	}
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("transient error recovers", func(t *testing.T) {
		calls := 0
		err := RetryPolicy{MaxAttempts: 3}.Do(ctx, func(ctx context.Context) error {
			calls++
			if calls < 2 {
				return errors.New("flaky")
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Fatalf("Do = %v after %d calls; want success on attempt 2", err, calls)
		}
	})

	t.Run("permanent error short-circuits", func(t *testing.T) {
		calls := 0
		err := RetryPolicy{MaxAttempts: 3}.Do(ctx, func(ctx context.Context) error {
			calls++
			return store.ErrArticleNotFound
		})
		if !errors.Is(err, store.ErrArticleNotFound) || calls != 1 {
			t.Fatalf("Do = %v after %d calls; want immediate not-found", err, calls)
		}
	})

	t.Run("budget exhaustion", func(t *testing.T) {
		cause := errors.New("always broken")
		calls := 0
		err := RetryPolicy{MaxAttempts: 2}.Do(ctx, func(ctx context.Context) error {
			calls++
			return cause
		})
		if !errors.Is(err, ErrRetriesExhausted) || calls != 2 {
			t.Fatalf("Do = %v after %d calls; want ErrRetriesExhausted after 2", err, calls)
		}
		if !errors.Is(err, cause) {
			t.Fatalf("Do = %v; want the last attempt's error kept in the chain", err)
		}
	})
}
