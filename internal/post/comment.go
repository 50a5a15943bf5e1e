package post

import (
	"time"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	AuthorID  uint      `gorm:"not null;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    uint      `gorm:"not null;index"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}
