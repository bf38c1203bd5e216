package repository

import (
	"context"

	"github.com/dom/news-api/internal/domain"
	"github.com/google/uuid"
)

// Page bounds a listing. Limit <= 0 means unbounded.
type Page struct {
	Limit  int
	Offset int
}

type UserFilter struct {
	Role *domain.Role
	Page Page
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)

	// UpdateRole changes the role inside a transaction and returns
	// domain.ErrLastAdmin when it would demote the only admin.
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)

	// SetActive flips the active flag only when it currently equals !active.
	// changed is false when the account already had the requested state.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (user *domain.User, changed bool, err error)

	// DeleteCascade removes the account and every news item it authored in one
	// transaction, returning domain.ErrLastAdmin for the only admin.
	DeleteCascade(ctx context.Context, id uuid.UUID) (*domain.User, []*domain.News, error)
}

type NewsFilter struct {
	ID            *uuid.UUID
	Slug          string
	Category      *domain.Category
	PublishedOnly bool
	Page          Page
}

type NewsRepository interface {
	Create(ctx context.Context, news *domain.News) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error)
	GetBySlug(ctx context.Context, slug string) (*domain.News, error)
	Update(ctx context.Context, news *domain.News) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter NewsFilter) ([]*domain.News, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.News, error)
}

type Repositories struct {
	User UserRepository
	News NewsRepository
}
