package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodorder/food-order-api/internal/models"
)

// IsRevoked reports whether jti appears in the revocation table. Callers
// treat a lookup error as a denial, never as "not revoked".
func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) StoreRefreshToken(ctx context.Context, row *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(row).Error
}

// FindValidActiveToken returns the active session row for jti, requiring
// it to exist and to not have expired yet.
func (r *GormRepo) FindValidActiveToken(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("jti = ? AND expires_at > ?", jti, time.Now()).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func revokeTx(tx *gorm.DB, jti, reason string, expiresAt time.Time) error {
	rec := models.RevokedToken{JTI: jti, Reason: reason, ExpiresAt: expiresAt}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "expires_at"}),
	}).Create(&rec).Error; err != nil {
		return err
	}
	return tx.Where("jti = ?", jti).Delete(&models.RefreshToken{}).Error
}

// Revoke upserts a revocation record for jti and removes any matching
// active session, as one transaction. Revoking an already revoked jti
// updates the record in place.
func (r *GormRepo) Revoke(ctx context.Context, jti, reason string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return revokeTx(tx, jti, reason, expiresAt)
	})
}

// Revocation names an extra jti to revoke inside a rotation, typically
// the access token paired with the consumed refresh token.
type Revocation struct {
	JTI       string
	Reason    string
	ExpiresAt time.Time
}

// RotateRefreshToken atomically consumes the old session row, records its
// revocation, revokes also (when set) and installs the replacement. The
// delete is the single-use gate: of two concurrent rotations exactly one
// sees RowsAffected == 1, the other gets ErrSessionConsumed and the whole
// transaction rolls back, leaving also unrevoked.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, oldExpiresAt time.Time, next *models.RefreshToken, also *Revocation) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("jti = ?", oldJTI).Delete(&models.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionConsumed
		}

		rec := models.RevokedToken{JTI: oldJTI, Reason: "refresh", ExpiresAt: oldExpiresAt}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jti"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "expires_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}

		if also != nil {
			if err := revokeTx(tx, also.JTI, also.Reason, also.ExpiresAt); err != nil {
				return err
			}
		}

		return tx.Create(next).Error
	})
}

// RevokeAllForUser migrates every active session of userID into the
// revocation table and deletes the active rows, as one transaction.
// Returns the number of sessions revoked.
func (r *GormRepo) RevokeAllForUser(ctx context.Context, userID uint, reason string) (int64, error) {
	var revoked int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.RefreshToken
		if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		recs := make([]models.RevokedToken, len(rows))
		for i, row := range rows {
			recs[i] = models.RevokedToken{JTI: row.JTI, Reason: reason, ExpiresAt: row.ExpiresAt}
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jti"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "expires_at"}),
		}).Create(&recs).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		revoked = res.RowsAffected
		return nil
	})
	return revoked, err
}

func (r *GormRepo) CountActiveSessions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// PurgeExpiredRevocations drops revocation rows whose tokens could no
// longer verify anyway.
func (r *GormRepo) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
