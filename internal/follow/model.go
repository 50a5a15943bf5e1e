package follow

import (
	"time"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

// Follow is the edge UserID -> AuthorID. The pair is unique and a user can
// not follow themselves; both rules are also schema constraints.
type Follow struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_not_self,user_id <> author_id"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
