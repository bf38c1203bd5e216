package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryPolitics.IsValid())
	assert.True(t, Category("entertainment").IsValid())
	assert.False(t, Category("weather").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestNews_SetPublished(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := &News{}

	n.SetPublished(true, now)
	assert.True(t, n.IsPublished)
	if assert.NotNil(t, n.PublishedAt) {
		assert.Equal(t, now, *n.PublishedAt)
	}

	n.SetPublished(false, now.Add(time.Hour))
	assert.False(t, n.IsPublished)
	assert.Nil(t, n.PublishedAt)
}

func TestNews_HasImage(t *testing.T) {
	n := &News{}
	assert.False(t, n.HasImage())

	n.Image = datatypes.NewJSONType(NewsImage{URL: "https://cdn/x.png", PublicID: "news/x.png"})
	assert.True(t, n.HasImage())
}
