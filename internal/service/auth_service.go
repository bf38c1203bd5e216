package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	logger   logging.Logger
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.Hasher, tokens *auth.TokenManager, logger logging.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult carries freshly minted tokens. RefreshToken is empty unless requested.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "userID", user.ID)
	return user, nil
}

// Login checks existence, then credentials, then the active flag.
// withRefresh additionally issues a refresh token.
func (s *AuthService) Login(ctx context.Context, input LoginInput, withRefresh bool) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for %s: %w", user.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	identity := auth.Identity{UserID: user.ID, Role: user.Role}
	result := &AuthResult{User: user}

	result.AccessToken, err = s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, err
	}

	if withRefresh {
		result.RefreshToken, err = s.tokens.IssueRefresh(identity)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Refresh mints a new access token from a refresh token. The account must
// still exist and be active; the new token carries its current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	identity, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", auth.ErrInvalidToken)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.tokens.IssueAccess(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: accessToken}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
