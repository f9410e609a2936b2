package store

import (
	"context"
	"errors"
	"time"

	"github.com/vetalione/content-pipeline/types"
)

var (
	// ErrArticleNotFound is returned when no article exists for an id.
	ErrArticleNotFound = errors.New("article not found")
	// ErrIllegalTransition is returned when a stage advancement skips a
	// required predecessor.
	ErrIllegalTransition = errors.New("illegal stage transition")
	// ErrPublicationNotFound is returned when no publication exists for an id.
	ErrPublicationNotFound = errors.New("publication not found")
)

// ArticleFilter narrows and pages article listings.
type ArticleFilter struct {
	Status   types.ArticleStatus
	Stage    types.Stage
	Page     int
	PageSize int
}

// Store is the persistence boundary for articles, publications and templates.
// Workers receive it explicitly; there is no package-level instance.
type Store interface {
	CreateArticle(ctx context.Context, a *types.Article) error
	// GetArticle loads an article with its cover image and publications.
	GetArticle(ctx context.Context, id string) (*types.Article, error)
	ListArticles(ctx context.Context, f ArticleFilter) ([]types.Article, int64, error)
	// UpdateArticle persists edits to scalar article fields.
	UpdateArticle(ctx context.Context, a *types.Article) error
	SetStatus(ctx context.Context, id string, s types.ArticleStatus) error
	DeleteArticle(ctx context.Context, id string) error

	SaveResearchData(ctx context.Context, id string, rd *types.ResearchData) error
	SaveContent(ctx context.Context, id string, c *types.ArticleContent) error
	// CreateCoverImage always inserts a new row; re-running the cover stage
	// accumulates covers and the article carries the most recent one.
	CreateCoverImage(ctx context.Context, cover *types.CoverImage) error

	// AdvanceStage moves the article to next, rejecting transitions the
	// stage machine does not whitelist.
	AdvanceStage(ctx context.Context, id string, next types.Stage) error

	// CreatePublication appends a row; attempts per (article, platform)
	// accumulate rather than upserting.
	CreatePublication(ctx context.Context, p *types.Publication) error
	UpdatePublication(ctx context.Context, p *types.Publication) error
	ListPublications(ctx context.Context, articleID string) ([]types.Publication, error)
	// DuePublications returns pending publications whose scheduledAt has
	// passed, for the scheduler loop.
	DuePublications(ctx context.Context, now time.Time) ([]types.Publication, error)

	ListTemplates(ctx context.Context) ([]types.StyleTemplate, error)
	DefaultTemplate(ctx context.Context) (*types.StyleTemplate, error)
	// CreateTemplate inserts a template; when it is marked default, previous
	// defaults are unset.
	CreateTemplate(ctx context.Context, t *types.StyleTemplate) error
}

// newestCover returns a copy of the most recently generated cover, no matter
// what order the rows arrive in. Ties go to the later row so freshly inserted
// covers without a timestamp still win.
func newestCover(covers []types.CoverImage) *types.CoverImage {
	var newest *types.CoverImage
	for i := range covers {
		if newest == nil || !covers[i].GeneratedAt.Before(newest.GeneratedAt) {
			newest = &covers[i]
		}
	}
	if newest == nil {
		return nil
	}
	cp := *newest
	return &cp
}
