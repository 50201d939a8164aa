package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Preload("Roles").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and attaches defaultRole in one
// transaction. The role row must exist (seeded at startup).
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User, defaultRole string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			return ErrUserAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var role models.Role
		if err := tx.Where("name = ?", defaultRole).First(&role).Error; err != nil {
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Roles").Append(&role)
	})
}

func (r *GormRepo) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *GormRepo) StoreResetToken(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
		}).Error
}

func (r *GormRepo) FindUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Where("reset_token_hash = ?", tokenHash).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ClearResetToken(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		}).Error
}
