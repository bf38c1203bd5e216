package service

import (
	"context"
	"time"

	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	"github.com/google/uuid"
)

// EventPublisher receives news lifecycle events; *feed.Hub implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event *feed.Event)
}

type NewsEventPayload struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Category    domain.Category `json:"category"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

func publishNewsEvent(ctx context.Context, events EventPublisher, logger logging.Logger, eventType feed.EventType, news *domain.News) {
	if events == nil {
		return
	}
	event, err := feed.NewEvent(eventType, NewsEventPayload{
		ID:          news.ID,
		Title:       news.Title,
		Slug:        news.Slug,
		Category:    news.Category,
		PublishedAt: news.PublishedAt,
	})
	if err != nil {
		logger.Error(ctx, "failed to build feed event", "newsID", news.ID, "error", err)
		return
	}
	events.Publish(ctx, event)
}
