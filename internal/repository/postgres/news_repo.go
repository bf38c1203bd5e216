package postgres

import (
	"context"

	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *newsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *domain.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	var news domain.News
	err := r.db.WithContext(ctx).First(&news, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) GetBySlug(ctx context.Context, slug string) (*domain.News, error) {
	var news domain.News
	err := r.db.WithContext(ctx).First(&news, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) Update(ctx context.Context, news *domain.News) error {
	return r.db.WithContext(ctx).Omit("Author").Save(news).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.News{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *newsRepository) List(ctx context.Context, filter repository.NewsFilter) ([]*domain.News, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.PublishedOnly {
			db = db.Where("is_published = ?", true)
		}
		if filter.ID != nil {
			db = db.Where("id = ?", *filter.ID)
		}
		if filter.Slug != "" {
			db = db.Where("slug = ?", filter.Slug)
		}
		if filter.Category != nil {
			db = db.Where("category = ?", *filter.Category)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.News{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var news []*domain.News
	err := r.db.WithContext(ctx).
		Scopes(where, paginate(filter.Page)).
		Order("published_at DESC NULLS LAST").
		Order("created_at DESC").
		Find(&news).Error
	if err != nil {
		return nil, 0, err
	}
	return news, total, nil
}

func (r *newsRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.News, error) {
	var news []*domain.News
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&news).Error
	if err != nil {
		return nil, err
	}
	return news, nil
}
