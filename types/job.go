package types

import "time"

// StyleConfig tunes the generation prompt.
type StyleConfig struct {
	Tone          string `json:"tone,omitempty"`
	PointsCount   int    `json:"pointsCount,omitempty"`
	IncludeQuotes bool   `json:"includeQuotes"`
	IncludeMemes  bool   `json:"includeMemes"`
	Language      string `json:"language,omitempty"`
}

// PipelineJob is the payload carried on the stage queues.
type PipelineJob struct {
	ArticleID   string       `json:"articleId"`
	Stage       Stage        `json:"stage"`
	StyleConfig *StyleConfig `json:"styleConfig,omitempty"`
	Template    string       `json:"template,omitempty"`
	Platform    Platform     `json:"platform,omitempty"`
}

// PlatformCustomization overrides presentation for one platform.
type PlatformCustomization struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Mentions    []string `json:"mentions,omitempty"`
}

// PublishRequest is the body of POST /api/publishing/:articleId/publish.
type PublishRequest struct {
	Platforms      []Platform                         `json:"platforms"`
	ScheduledAt    *time.Time                         `json:"scheduledAt,omitempty"`
	Customizations map[Platform]PlatformCustomization `json:"customizations,omitempty"`
	// Async hands the request to the publish queue workers instead of
	// dispatching inline; one job is enqueued per platform.
	Async bool `json:"async,omitempty"`
}
