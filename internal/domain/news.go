package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Category is the section a news article belongs to
type Category string

const (
	CategoryPolitics      Category = "politics"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
	CategoryBusiness      Category = "business"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
)

// AllCategories contains all valid categories
var AllCategories = []Category{
	CategoryPolitics,
	CategorySports,
	CategoryTechnology,
	CategoryBusiness,
	CategoryHealth,
	CategoryEntertainment,
}

// IsValid checks if a category is valid
func (c Category) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// NewsImage points at an object in the blob store
type NewsImage struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"publicId,omitempty"`
}

type News struct {
	ID          uuid.UUID                     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string                        `json:"title" gorm:"not null"`
	Slug        string                        `json:"slug" gorm:"uniqueIndex;not null"`
	Content     string                        `json:"content" gorm:"type:text;not null"`
	Category    Category                      `json:"category" gorm:"type:varchar(32);index:idx_news_public,priority:1;not null"`
	AuthorID    uuid.UUID                     `json:"authorId" gorm:"type:uuid;index;not null"`
	Author      *User                         `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Image       datatypes.JSONType[NewsImage] `json:"image" gorm:"type:jsonb"`
	IsPublished bool                          `json:"isPublished" gorm:"index:idx_news_public,priority:2;not null"`
	PublishedAt *time.Time                    `json:"publishedAt" gorm:"index:idx_news_public,priority:3"`
	CreatedAt   time.Time                     `json:"createdAt"`
	UpdatedAt   time.Time                     `json:"updatedAt"`
}

// HasImage reports whether an image blob is attached
func (n *News) HasImage() bool {
	return n.Image.Data().PublicID != ""
}

// SetPublished flips the publish state, stamping or clearing PublishedAt
func (n *News) SetPublished(published bool, now time.Time) {
	n.IsPublished = published
	if published {
		n.PublishedAt = &now
	} else {
		n.PublishedAt = nil
	}
}
