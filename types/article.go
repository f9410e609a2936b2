package types

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus is the coarse lifecycle label set by callers.
type ArticleStatus string

const (
	StatusDraft         ArticleStatus = "draft"
	StatusInProgress    ArticleStatus = "in_progress"
	StatusPendingReview ArticleStatus = "pending_review"
	StatusApproved      ArticleStatus = "approved"
	StatusPublished     ArticleStatus = "published"
	StatusFailed        ArticleStatus = "failed"
)

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusPendingReview, StatusApproved, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// Language selects which platforms and prompt language are used.
type Language string

const (
	LanguageRU   Language = "ru"
	LanguageEN   Language = "en"
	LanguageBoth Language = "both"
)

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageRU, LanguageEN, LanguageBoth:
		return true
	}
	return false
}

// Article is one unit of work moving through the pipeline.
type Article struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	CelebrityName string          `json:"celebrityName" gorm:"size:255;not null"`
	Language      Language        `json:"language" gorm:"size:8;default:ru"`
	Status        ArticleStatus   `json:"status" gorm:"size:32"`
	CurrentStage  Stage           `json:"currentStage" gorm:"size:32"`
	ResearchData  *ResearchData   `json:"researchData,omitempty" gorm:"serializer:json;type:text"`
	Content       *ArticleContent `json:"content,omitempty" gorm:"serializer:json;type:text"`
	CoverImage    *CoverImage     `json:"coverImage,omitempty" gorm:"foreignKey:ArticleID"`
	Publications  []Publication   `json:"publications,omitempty" gorm:"foreignKey:ArticleID"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ResearchData is the normalized output of the research stage.
type ResearchData struct {
	Facts       []BiographyFact  `json:"facts"`
	Quotes      []Quote          `json:"quotes"`
	Images      []ImageReference `json:"images"`
	Sources     []string         `json:"sources"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// FactCategory classifies a biography fact by its dramatic role.
type FactCategory string

const (
	CategoryFailure     FactCategory = "failure"
	CategoryTragedy     FactCategory = "tragedy"
	CategoryControversy FactCategory = "controversy"
	CategoryStruggle    FactCategory = "struggle"
	CategorySuccess     FactCategory = "success"
)

// BiographyFact is a single sourced fact. Severity is a 1..5 drama level.
type BiographyFact struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    FactCategory `json:"category"`
	Year        int          `json:"year,omitempty"`
	Severity    int          `json:"severity"`
	Sources     []string     `json:"sources"`
}

// Quote is an exact quotation with provenance.
type Quote struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Context string `json:"context"`
	Source  string `json:"source"`
	Year    int    `json:"year,omitempty"`
}

// ImageReference points at a candidate photo found during research.
type ImageReference struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
	IsRare      bool   `json:"isRare"`
	Year        int    `json:"year,omitempty"`
}

// ArticleContent is the generated article body.
type ArticleContent struct {
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Intro       string           `json:"intro"`
	Sections    []ArticleSection `json:"sections"`
	Conclusion  string           `json:"conclusion"`
	Motivation  string           `json:"motivation"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// ArticleSection is one ordered block of the article.
type ArticleSection struct {
	ID       string           `json:"id"`
	Order    int              `json:"order"`
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	Quote    *Quote           `json:"quote,omitempty"`
	MemeText string           `json:"memeText,omitempty"`
	Images   []ImageReference `json:"images"`
}

// CoverImage is the processed cover, owned 1:1 by its article.
type CoverImage struct {
	ID                string    `json:"id" gorm:"primaryKey;size:36"`
	ArticleID         string    `json:"articleId" gorm:"size:36;index"`
	OriginalImageURL  string    `json:"originalImageUrl"`
	ProcessedImageURL string    `json:"processedImageUrl"`
	LocalPath         string    `json:"localPath"`
	Template          string    `json:"template" gorm:"size:64"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// NewID returns an opaque unique identifier.
func NewID() string {
	return uuid.NewString()
}
