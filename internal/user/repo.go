package user

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
)

var ErrNotFound = errors.New("user not found")

func ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := database.DB.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users with email: %w", err)
	}
	return count > 0, nil
}

func ExistsByUsername(username string) (bool, error) {
	var count int64
	if err := database.DB.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users named %q: %w", username, err)
	}
	return count > 0, nil
}

// FindByUsername returns ErrNotFound when no user matches.
func FindByUsername(username string) (*User, error) {
	var u User
	if err := database.DB.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

// FindByID returns ErrNotFound when no user matches.
func FindByID(id uint) (*User, error) {
	var u User
	if err := database.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &u, nil
}

// Create hashes password with cost and inserts u.
func Create(u *User, password string, cost int) error {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if err := database.DB.Create(u).Error; err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	return nil
}
