package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name      string
	email     string
	password  string
	role      domain.Role
	active    bool
	createdAt time.Time
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Test User " + suffix,
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
		active:   true,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Inactive builds a disabled account
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// CreatedAt pins the creation time, for ordering tests
func (b *UserBuilder) CreatedAt(at time.Time) *UserBuilder {
	b.createdAt = at
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        service.NormalizeEmail(b.email),
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		IsActive:     b.active,
		CreatedAt:    b.createdAt,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildWithToken creates the user and mints an access token for it
func (b *UserBuilder) BuildWithToken(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, _ := b.Build(t, ts.DB.DB)
	token, err := ts.Services.Tokens.IssueAccess(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}
	return user, token
}

// NewsBuilder creates test news items with a builder pattern
type NewsBuilder struct {
	author    *domain.User
	title     string
	content   string
	category  domain.Category
	published bool
	imageKey  string
	at        time.Time
}

func NewNewsBuilder(author *domain.User) *NewsBuilder {
	return &NewsBuilder{
		author:    author,
		title:     "Story " + uuid.New().String()[:8],
		content:   "Some content",
		category:  domain.CategoryTechnology,
		published: true,
		at:        time.Now(),
	}
}

func (b *NewsBuilder) WithTitle(title string) *NewsBuilder {
	b.title = title
	return b
}

func (b *NewsBuilder) WithCategory(category domain.Category) *NewsBuilder {
	b.category = category
	return b
}

func (b *NewsBuilder) Draft() *NewsBuilder {
	b.published = false
	return b
}

// WithImage attaches image metadata pointing at key
func (b *NewsBuilder) WithImage(key string) *NewsBuilder {
	b.imageKey = key
	return b
}

// PublishedAt pins the publication time
func (b *NewsBuilder) PublishedAt(at time.Time) *NewsBuilder {
	b.at = at
	return b
}

func (b *NewsBuilder) Build(t *testing.T, db *gorm.DB) *domain.News {
	t.Helper()

	news := &domain.News{
		ID:       uuid.New(),
		Title:    b.title,
		Slug:     service.Slugify(b.title),
		Content:  b.content,
		Category: b.category,
		AuthorID: b.author.ID,
	}
	news.SetPublished(b.published, b.at)
	if b.imageKey != "" {
		news.Image = datatypes.NewJSONType(domain.NewsImage{
			URL:      "https://blobs.test/" + b.imageKey,
			PublicID: b.imageKey,
		})
	}

	if err := db.Create(news).Error; err != nil {
		t.Fatalf("failed to create news: %v", err)
	}
	return news
}
