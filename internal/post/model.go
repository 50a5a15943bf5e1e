package post

import (
	"time"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

type Post struct {
	ID        uint         `gorm:"primaryKey"`
	Text      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"index"`
	AuthorID  uint         `gorm:"not null;index"`
	Author    user.User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID   *uint        `gorm:"index"`
	Group     *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	// Image is the media store key, ImageURL the public address of it.
	Image    string
	ImageURL string
}

// HasImage reports whether an image is attached.
func (p *Post) HasImage() bool {
	return p.Image != ""
}
