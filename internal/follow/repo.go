package follow

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
)

// Add creates the edge userID -> authorID. Following yourself or an
// author already followed is a no-op; created reports whether a row was
// inserted. Concurrent calls for the same pair are settled by the unique
// index.
func Add(userID, authorID uint) (created bool, err error) {
	if userID == authorID {
		return false, nil
	}

	res := database.DB.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Follow{UserID: userID, AuthorID: authorID})
	if res.Error != nil {
		return false, fmt.Errorf("follow %d -> %d: %w", userID, authorID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge if there is one.
func Unfollow(userID, authorID uint) error {
	err := database.DB.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&Follow{}).Error
	if err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", userID, authorID, err)
	}
	return nil
}

func IsFollowing(userID, authorID uint) (bool, error) {
	var f Follow
	err := database.DB.
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&f).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// FollowedAuthorIDs lists who userID follows.
func FollowedAuthorIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list followed authors of %d: %w", userID, err)
	}
	return ids, nil
}

func CountFollowers(authorID uint) (int64, error) {
	var count int64
	if err := database.DB.Model(&Follow{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count followers of %d: %w", authorID, err)
	}
	return count, nil
}

func CountFollowing(userID uint) (int64, error) {
	var count int64
	if err := database.DB.Model(&Follow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count following of %d: %w", userID, err)
	}
	return count, nil
}
