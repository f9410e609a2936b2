package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vetalione/content-pipeline/types"
)

// MemoryStore is an in-process Store used by tests and local runs without MySQL.
type MemoryStore struct {
	mu           sync.Mutex
	articles     map[string]*types.Article
	covers       map[string][]types.CoverImage
	publications map[string]*types.Publication
	templates    map[string]*types.StyleTemplate
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles:     make(map[string]*types.Article),
		covers:       make(map[string][]types.CoverImage),
		publications: make(map[string]*types.Publication),
		templates:    make(map[string]*types.StyleTemplate),
	}
}

func (s *MemoryStore) CreateArticle(ctx context.Context, a *types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = types.NewID()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	s.articles[a.ID] = &cp
	return nil
}

func (s *MemoryStore) GetArticle(ctx context.Context, id string) (*types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, ErrArticleNotFound
	}
	cp := *a
	cp.CoverImage = newestCover(s.covers[id])
	cp.Publications = s.publicationsFor(id)
	return &cp, nil
}

func (s *MemoryStore) ListArticles(ctx context.Context, f ArticleFilter) ([]types.Article, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []types.Article
	for _, a := range s.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Stage != "" && a.CurrentStage != f.Stage {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []types.Article{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *MemoryStore) UpdateArticle(ctx context.Context, a *types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.articles[a.ID]
	if !ok {
		return ErrArticleNotFound
	}
	cur.CelebrityName = a.CelebrityName
	cur.Language = a.Language
	cur.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id string, status types.ArticleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrArticleNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) DeleteArticle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return ErrArticleNotFound
	}
	delete(s.articles, id)
	delete(s.covers, id)
	for pid, p := range s.publications {
		if p.ArticleID == id {
			delete(s.publications, pid)
		}
	}
	return nil
}

func (s *MemoryStore) SaveResearchData(ctx context.Context, id string, rd *types.ResearchData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrArticleNotFound
	}
	a.ResearchData = rd
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SaveContent(ctx context.Context, id string, c *types.ArticleContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrArticleNotFound
	}
	a.Content = c
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CreateCoverImage(ctx context.Context, cover *types.CoverImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cover.ID == "" {
		cover.ID = types.NewID()
	}
	s.covers[cover.ArticleID] = append(s.covers[cover.ArticleID], *cover)
	return nil
}

// CoverCount reports how many cover rows exist for an article. Test helper.
func (s *MemoryStore) CoverCount(articleID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.covers[articleID])
}

func (s *MemoryStore) AdvanceStage(ctx context.Context, id string, next types.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrArticleNotFound
	}
	if !a.CurrentStage.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.CurrentStage, next)
	}
	a.CurrentStage = next
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CreatePublication(ctx context.Context, p *types.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = types.NewID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.publications[p.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdatePublication(ctx context.Context, p *types.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.publications[p.ID]
	if !ok {
		return ErrPublicationNotFound
	}
	cur.Status = p.Status
	cur.PublishedURL = p.PublishedURL
	cur.PublishedAt = p.PublishedAt
	cur.Error = p.Error
	cur.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ListPublications(ctx context.Context, articleID string) ([]types.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publicationsFor(articleID), nil
}

func (s *MemoryStore) publicationsFor(articleID string) []types.Publication {
	var pubs []types.Publication
	for _, p := range s.publications {
		if p.ArticleID == articleID {
			pubs = append(pubs, *p)
		}
	}
	sort.Slice(pubs, func(i, j int) bool { return pubs[i].CreatedAt.After(pubs[j].CreatedAt) })
	return pubs
}

func (s *MemoryStore) DuePublications(ctx context.Context, now time.Time) ([]types.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []types.Publication
	for _, p := range s.publications {
		if p.Status == types.PublicationPending && p.ScheduledAt != nil && !p.ScheduledAt.After(now) {
			due = append(due, *p)
		}
	}
	return due, nil
}

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]types.StyleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ts []types.StyleTemplate
	for _, t := range s.templates {
		ts = append(ts, *t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].CreatedAt.After(ts[j].CreatedAt) })
	return ts, nil
}

func (s *MemoryStore) DefaultTemplate(ctx context.Context) (*types.StyleTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.IsDefault {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateTemplate(ctx context.Context, t *types.StyleTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = types.NewID()
	}
	t.CreatedAt = time.Now()
	if t.IsDefault {
		for _, existing := range s.templates {
			existing.IsDefault = false
		}
	}
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}
