package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/feed"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository"
	"github.com/dom/news-api/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// AccountService enforces the account lifecycle rules: self-protection and
// at least one admin at all times.
type AccountService struct {
	userRepo repository.UserRepository
	blobs    storage.BlobStore
	events   EventPublisher
	hasher   *auth.Hasher
	logger   logging.Logger
}

func NewAccountService(userRepo repository.UserRepository, blobs storage.BlobStore, events EventPublisher, hasher *auth.Hasher, logger logging.Logger) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		blobs:    blobs,
		events:   events,
		hasher:   hasher,
		logger:   logger.With("component", "accounts"),
	}
}

type ListUsersInput struct {
	Role  string
	Page  int
	Limit int
}

// Pagination is only populated when the caller asked for a page.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type UserList struct {
	Users      []*domain.User
	Pagination *Pagination
}

type DeleteSummary struct {
	DeletedUser      string `json:"deletedUser"`
	DeletedNewsCount int    `json:"deletedNewsCount"`
}

func (s *AccountService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if actorID == targetID && role != domain.RoleAdmin {
		return nil, ErrSelfRoleChange
	}

	user, err := s.userRepo.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info(ctx, "user role changed", "actorID", actorID, "userID", targetID, "role", role)
	return user, nil
}

func (s *AccountService) List(ctx context.Context, input ListUsersInput) (*UserList, error) {
	filter := repository.UserFilter{}

	if roleStr := strings.TrimSpace(input.Role); roleStr != "" {
		role := domain.Role(roleStr)
		if !role.IsValid() {
			return nil, ErrInvalidRole
		}
		filter.Role = &role
	}

	paginated := input.Page > 0 || input.Limit > 0
	page, limit := normalizePage(input.Page, input.Limit)
	if paginated {
		filter.Page = repository.Page{Limit: limit, Offset: (page - 1) * limit}
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	list := &UserList{Users: users}
	if paginated {
		list.Pagination = &Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		}
	}
	return list, nil
}

func (s *AccountService) Disable(ctx context.Context, actorID, targetID uuid.UUID) (*domain.User, error) {
	if actorID == targetID {
		return nil, ErrSelfDisable
	}

	user, changed, err := s.userRepo.SetActive(ctx, targetID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyDisabled
	}

	s.logger.Info(ctx, "user disabled", "actorID", actorID, "userID", targetID)
	return user, nil
}

func (s *AccountService) Enable(ctx context.Context, targetID uuid.UUID) (*domain.User, error) {
	user, changed, err := s.userRepo.SetActive(ctx, targetID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyActive
	}

	s.logger.Info(ctx, "user enabled", "userID", targetID)
	return user, nil
}

// Delete removes the account and its news in one transaction, then removes
// image blobs best-effort. Blob failures are logged and never undo the delete.
func (s *AccountService) Delete(ctx context.Context, actorID, targetID uuid.UUID) (*DeleteSummary, error) {
	if actorID == targetID {
		return nil, ErrSelfDelete
	}

	user, news, err := s.userRepo.DeleteCascade(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	for _, item := range news {
		if item.HasImage() {
			key := item.Image.Data().PublicID
			if err := s.blobs.Delete(ctx, key); err != nil {
				s.logger.Warn(ctx, "orphaned news image", "newsID", item.ID, "key", key, "error", err)
			}
		}
		if item.IsPublished {
			publishNewsEvent(ctx, s.events, s.logger, feed.EventNewsDeleted, item)
		}
	}

	s.logger.Info(ctx, "user deleted", "actorID", actorID, "userID", user.ID, "newsCount", len(news))
	return &DeleteSummary{
		DeletedUser:      user.Email,
		DeletedNewsCount: len(news),
	}, nil
}

type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the bootstrap admin unless an admin already exists.
// created is false when seeding was skipped.
func (s *AccountService) EnsureAdmin(ctx context.Context, input SeedAdminInput) (user *domain.User, created bool, err error) {
	count, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		s.logger.Info(ctx, "admin already exists, seeding skipped")
		return nil, false, nil
	}

	email := NormalizeEmail(input.Email)
	if strings.TrimSpace(input.Name) == "" || email == "" || input.Password == "" {
		return nil, false, ErrMissingFields
	}
	if len(input.Password) < MinPasswordLength {
		return nil, false, ErrPasswordTooShort
	}
	if len(input.Password) > MaxPasswordLength {
		return nil, false, ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, false, err
	}

	user = &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, ErrEmailTaken
		}
		return nil, false, err
	}

	s.logger.Info(ctx, "admin created", "userID", user.ID, "email", user.Email)
	return user, true, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
