package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/vetalione/content-pipeline/types"
)

// GormStore persists the pipeline data model in MySQL through gorm.
type GormStore struct {
	db *gorm.DB
}

// Open connects to MySQL, tunes the pool and migrates the schema.
func Open(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       dsn,
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&types.Article{},
		&types.CoverImage{},
		&types.Publication{},
		&types.StyleTemplate{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing gorm handle (used by tests with sqlmock-like drivers).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateArticle(ctx context.Context, a *types.Article) error {
	if a.ID == "" {
		a.ID = types.NewID()
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *GormStore) GetArticle(ctx context.Context, id string) (*types.Article, error) {
	var a types.Article
	err := s.db.WithContext(ctx).
		Preload("Publications").
		First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	// Covers accumulate across reruns; load them all and pick the newest
	// rather than relying on preload assignment order for a has-one.
	var covers []types.CoverImage
	if err := s.db.WithContext(ctx).
		Where("article_id = ?", id).
		Find(&covers).Error; err != nil {
		return nil, err
	}
	a.CoverImage = newestCover(covers)
	return &a, nil
}

func (s *GormStore) ListArticles(ctx context.Context, f ArticleFilter) ([]types.Article, int64, error) {
	q := s.db.WithContext(ctx).Model(&types.Article{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Stage != "" {
		q = q.Where("current_stage = ?", f.Stage)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var articles []types.Article
	// A has-one preload keeps the last row assigned, so ascending order
	// leaves the newest cover on the article.
	err := q.Preload("CoverImage", func(db *gorm.DB) *gorm.DB {
		return db.Order("generated_at ASC")
	}).Preload("Publications").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&articles).Error
	return articles, total, err
}

func (s *GormStore) UpdateArticle(ctx context.Context, a *types.Article) error {
	res := s.db.WithContext(ctx).Model(&types.Article{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"celebrity_name": a.CelebrityName,
			"language":       a.Language,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *GormStore) SetStatus(ctx context.Context, id string, status types.ArticleStatus) error {
	res := s.db.WithContext(ctx).Model(&types.Article{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *GormStore) DeleteArticle(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&types.Publication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&types.CoverImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&types.Article{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrArticleNotFound
		}
		return nil
	})
}

func (s *GormStore) SaveResearchData(ctx context.Context, id string, rd *types.ResearchData) error {
	return s.updateArtifact(ctx, id, "research_data", rd)
}

func (s *GormStore) SaveContent(ctx context.Context, id string, c *types.ArticleContent) error {
	return s.updateArtifact(ctx, id, "content", c)
}

func (s *GormStore) updateArtifact(ctx context.Context, id, column string, value interface{}) error {
	res := s.db.WithContext(ctx).Model(&types.Article{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *GormStore) CreateCoverImage(ctx context.Context, cover *types.CoverImage) error {
	if cover.ID == "" {
		cover.ID = types.NewID()
	}
	return s.db.WithContext(ctx).Create(cover).Error
}

func (s *GormStore) AdvanceStage(ctx context.Context, id string, next types.Stage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a types.Article
		if err := tx.Select("id", "current_stage").First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return err
		}
		if !a.CurrentStage.CanAdvanceTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.CurrentStage, next)
		}
		return tx.Model(&types.Article{}).Where("id = ?", id).
			Update("current_stage", next).Error
	})
}

func (s *GormStore) CreatePublication(ctx context.Context, p *types.Publication) error {
	if p.ID == "" {
		p.ID = types.NewID()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) UpdatePublication(ctx context.Context, p *types.Publication) error {
	res := s.db.WithContext(ctx).Model(&types.Publication{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":        p.Status,
			"published_url": p.PublishedURL,
			"published_at":  p.PublishedAt,
			"error":         p.Error,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPublicationNotFound
	}
	return nil
}

func (s *GormStore) ListPublications(ctx context.Context, articleID string) ([]types.Publication, error) {
	var pubs []types.Publication
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Find(&pubs).Error
	return pubs, err
}

func (s *GormStore) DuePublications(ctx context.Context, now time.Time) ([]types.Publication, error) {
	var pubs []types.Publication
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", types.PublicationPending, now).
		Find(&pubs).Error
	return pubs, err
}

func (s *GormStore) ListTemplates(ctx context.Context) ([]types.StyleTemplate, error) {
	var ts []types.StyleTemplate
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

func (s *GormStore) DefaultTemplate(ctx context.Context) (*types.StyleTemplate, error) {
	var t types.StyleTemplate
	err := s.db.WithContext(ctx).First(&t, "is_default = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) CreateTemplate(ctx context.Context, t *types.StyleTemplate) error {
	if t.ID == "" {
		t.ID = types.NewID()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.IsDefault {
			if err := tx.Model(&types.StyleTemplate{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(t).Error
	})
}
