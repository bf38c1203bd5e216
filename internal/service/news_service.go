package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository"
	"github.com/dom/news-api/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NewsService struct {
	newsRepo repository.NewsRepository
	blobs    storage.BlobStore
	events   EventPublisher
	logger   logging.Logger
	now      func() time.Time
}

func NewNewsService(newsRepo repository.NewsRepository, blobs storage.BlobStore, events EventPublisher, logger logging.Logger) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
		blobs:    blobs,
		events:   events,
		logger:   logger.With("component", "news"),
		now:      time.Now,
	}
}

// ImageUpload is an image received with a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type ListNewsInput struct {
	ID       string
	Slug     string
	Category string
	Page     int
	Limit    int
}

type NewsPagination struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

type NewsList struct {
	Items      []*domain.News
	Pagination NewsPagination
}

type CreateNewsInput struct {
	Title       string
	Content     string
	Category    string
	IsPublished bool
	AuthorID    uuid.UUID
	Image       *ImageUpload
}

// UpdateNewsInput holds optional changes; nil or empty fields are left untouched.
type UpdateNewsInput struct {
	Title       string
	Content     string
	Category    string
	IsPublished *bool
	Image       *ImageUpload
}

// List returns published news, newest first. Asking for a specific id or
// slug that matches nothing yields ErrNewsNotFound.
func (s *NewsService) List(ctx context.Context, input ListNewsInput) (*NewsList, error) {
	filter := repository.NewsFilter{PublishedOnly: true}

	if input.ID != "" {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, ErrNewsNotFound
		}
		filter.ID = &id
	}
	filter.Slug = strings.TrimSpace(input.Slug)

	if input.Category != "" {
		category := domain.Category(input.Category)
		if !category.IsValid() {
			return nil, domain.ErrInvalidCategory
		}
		filter.Category = &category
	}

	page, limit := normalizePage(input.Page, input.Limit)
	filter.Page = repository.Page{Limit: limit, Offset: (page - 1) * limit}

	items, total, err := s.newsRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if (filter.ID != nil || filter.Slug != "") && len(items) == 0 {
		return nil, ErrNewsNotFound
	}

	return &NewsList{
		Items: items,
		Pagination: NewsPagination{
			Page:         page,
			Limit:        limit,
			TotalPages:   totalPages(total, limit),
			TotalResults: total,
		},
	}, nil
}

func (s *NewsService) Create(ctx context.Context, input CreateNewsInput) (*domain.News, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" || input.Category == "" {
		return nil, ErrMissingFields
	}

	category := domain.Category(input.Category)
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	slug := Slugify(title)
	if slug == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.newsRepo.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	news := &domain.News{
		ID:       uuid.New(),
		Title:    title,
		Slug:     slug,
		Content:  input.Content,
		Category: category,
		AuthorID: input.AuthorID,
	}
	news.SetPublished(input.IsPublished, s.now())

	if input.Image != nil {
		image, err := s.upload(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		news.Image = datatypes.NewJSONType(*image)
	}

	if err := s.newsRepo.Create(ctx, news); err != nil {
		s.discardImage(ctx, news)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	if news.IsPublished {
		publishNewsEvent(ctx, s.events, s.logger, feed.EventNewsPublished, news)
	}
	return news, nil
}

func (s *NewsService) Update(ctx context.Context, id uuid.UUID, input UpdateNewsInput) (*domain.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	if input.Category != "" && !domain.Category(input.Category).IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	wasPublished := news.IsPublished

	if title := strings.TrimSpace(input.Title); title != "" {
		news.Title = title
	}
	if input.Content != "" {
		news.Content = input.Content
	}
	if input.Category != "" {
		news.Category = domain.Category(input.Category)
	}
	if input.IsPublished != nil {
		news.SetPublished(*input.IsPublished, s.now())
	}

	var replaced string
	if input.Image != nil {
		image, err := s.upload(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if news.HasImage() {
			replaced = news.Image.Data().PublicID
		}
		news.Image = datatypes.NewJSONType(*image)
	}

	if err := s.newsRepo.Update(ctx, news); err != nil {
		if input.Image != nil {
			s.discardImage(ctx, news)
		}
		return nil, err
	}

	if replaced != "" {
		s.deleteBlob(ctx, news.ID, replaced)
	}

	if news.IsPublished && !wasPublished {
		publishNewsEvent(ctx, s.events, s.logger, feed.EventNewsPublished, news)
	}
	return news, nil
}

// Delete removes the image blob best-effort, then the row.
func (s *NewsService) Delete(ctx context.Context, id uuid.UUID) error {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsNotFound
		}
		return err
	}

	if news.HasImage() {
		s.deleteBlob(ctx, news.ID, news.Image.Data().PublicID)
	}

	if err := s.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsNotFound
		}
		return err
	}

	if news.IsPublished {
		publishNewsEvent(ctx, s.events, s.logger, feed.EventNewsDeleted, news)
	}
	return nil
}

func (s *NewsService) upload(ctx context.Context, img *ImageUpload) (*domain.NewsImage, error) {
	key := "news/" + uuid.New().String() + strings.ToLower(path.Ext(img.Filename))
	obj, err := s.blobs.Put(ctx, key, img.Body, img.Size, img.ContentType)
	if err != nil {
		return nil, err
	}
	return &domain.NewsImage{URL: obj.URL, PublicID: obj.Key}, nil
}

func (s *NewsService) discardImage(ctx context.Context, news *domain.News) {
	if news.HasImage() {
		s.deleteBlob(ctx, news.ID, news.Image.Data().PublicID)
	}
}

func (s *NewsService) deleteBlob(ctx context.Context, newsID uuid.UUID, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to delete news image", "newsID", newsID, "key", key, "error", err)
	}
}
