package post

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
)

var ErrNotFound = errors.New("post not found")

const feedOrder = "created_at DESC, id DESC"

// FeedQuery is every post, most recent first.
func FeedQuery() *gorm.DB {
	return database.DB.Model(&Post{}).Order(feedOrder)
}

func ByGroup(groupID uint) *gorm.DB {
	return FeedQuery().Where("group_id = ?", groupID)
}

func ByAuthor(authorID uint) *gorm.DB {
	return FeedQuery().Where("author_id = ?", authorID)
}

// ByAuthors matches nothing when authorIDs is empty.
func ByAuthors(authorIDs []uint) *gorm.DB {
	if len(authorIDs) == 0 {
		return FeedQuery().Where("1 = 0")
	}
	return FeedQuery().Where("author_id IN ?", authorIDs)
}

// FindByAuthorAndID loads the post with its author and group. It returns
// ErrNotFound when id does not exist or belongs to someone else.
func FindByAuthorAndID(authorID, id uint) (*Post, error) {
	var p Post
	err := database.DB.Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

func CountByAuthor(authorID uint) (int64, error) {
	var count int64
	if err := database.DB.Model(&Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count posts of %d: %w", authorID, err)
	}
	return count, nil
}

func Create(p *Post) error {
	if err := database.DB.Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update writes fields on p. The author column is never touched, and loaded
// associations on p do not override the group_id in fields.
func Update(p *Post, fields map[string]interface{}) error {
	delete(fields, "author_id")
	err := database.DB.Model(&Post{ID: p.ID}).
		Omit(clause.Associations).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes p; its comments go with it through the foreign key.
func Delete(p *Post) error {
	if err := database.DB.Delete(&Post{}, p.ID).Error; err != nil {
		return fmt.Errorf("delete post %d: %w", p.ID, err)
	}
	return nil
}

func CreateComment(c *Comment) error {
	if err := database.DB.Omit(clause.Associations).Create(c).Error; err != nil {
		return fmt.Errorf("create comment on %d: %w", c.PostID, err)
	}
	return nil
}

// Comments lists the comments of a post, oldest first.
func Comments(postID uint) ([]Comment, error) {
	var comments []Comment
	err := database.DB.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments of %d: %w", postID, err)
	}
	return comments, nil
}
