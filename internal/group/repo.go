package group

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
)

var (
	ErrNotFound    = errors.New("group not found")
	ErrSlugTaken   = errors.New("group slug already used")
	ErrInvalidSlug = errors.New("slug may only contain letters, numbers, underscores and hyphens")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// FindBySlug returns ErrNotFound when no group matches.
func FindBySlug(slug string) (*Group, error) {
	var g Group
	if err := database.DB.Where("slug = ?", slug).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find group %q: %w", slug, err)
	}
	return &g, nil
}

// All returns groups ordered by title, for form select boxes.
func All() ([]Group, error) {
	var groups []Group
	if err := database.DB.Order("title").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Create validates g and inserts it. Slugs are unique.
func Create(g *Group) error {
	if err := validation.ValidateStruct(g); err != nil {
		return err
	}
	if !slugPattern.MatchString(g.Slug) {
		return ErrInvalidSlug
	}

	var count int64
	if err := database.DB.Model(&Group{}).Where("slug = ?", g.Slug).Count(&count).Error; err != nil {
		return fmt.Errorf("check slug %q: %w", g.Slug, err)
	}
	if count > 0 {
		return ErrSlugTaken
	}
	if err := database.DB.Create(g).Error; err != nil {
		return fmt.Errorf("create group %q: %w", g.Slug, err)
	}
	return nil
}
