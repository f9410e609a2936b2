package ai

// RawResearch is the provider-shaped research payload before normalization.
// Field shapes follow the research prompt's JSON contract; numeric fields
// arrive as strings from some providers and are parsed during normalization.
type RawResearch struct {
	Teaser      *RawTeaser   `json:"teaser,omitempty"`
	Failures    []RawFailure `json:"failures"`
	Quotes      []RawQuote   `json:"quotes"`
	Success     *RawSuccess  `json:"success,omitempty"`
	RareSources []RawSource  `json:"rare_sources,omitempty"`
	BonusFact   string       `json:"bonus_fact,omitempty"`
	Timeline    string       `json:"timeline,omitempty"`
	Sources     []string     `json:"sources"`
}

type RawTeaser struct {
	KnownFor           string `json:"known_for"`
	HiddenDrama        string `json:"hidden_drama"`
	ChildhoodPhotoHint string `json:"childhood_photo_hint"`
}

type RawFailure struct {
	Number           int    `json:"number"`
	Title            string `json:"title"`
	Age              string `json:"age"`
	Year             string `json:"year"`
	Description      string `json:"description"`
	Outcome          string `json:"outcome"`
	Severity         int    `json:"severity"`
	Source           string `json:"source"`
	VisualSuggestion string `json:"visual_suggestion"`
}

type RawQuote struct {
	Text              string `json:"text"`
	Context           string `json:"context"`
	Source            string `json:"source"`
	Year              string `json:"year"`
	PageOrTimestamp   string `json:"page_or_timestamp"`
	SuitableForEnding bool   `json:"suitable_for_ending"`
}

type RawSuccess struct {
	PeakAchievement string   `json:"peak_achievement"`
	CurrentStatus   string   `json:"current_status"`
	Wealth          string   `json:"wealth"`
	Awards          []string `json:"awards"`
	PersonalLife    string   `json:"personal_life"`
}

type RawSource struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     string `json:"year"`
	URL      string `json:"url"`
	KeyFacts string `json:"key_facts"`
}
