package service

import (
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/config"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/repository"
	"github.com/dom/news-api/internal/storage"
)

type Services struct {
	Auth    *AuthService
	Account *AccountService
	News    *NewsService
	Tokens  *auth.TokenManager
}

func NewServices(repos *repository.Repositories, blobs storage.BlobStore, events EventPublisher, cfg *config.Config, logger logging.Logger) *Services {
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg)

	return &Services{
		Auth:    NewAuthService(repos.User, hasher, tokens, logger),
		Account: NewAccountService(repos.User, blobs, events, hasher, logger),
		News:    NewNewsService(repos.News, blobs, events, logger),
		Tokens:  tokens,
	}
}
