package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrSessionConsumed signals that a refresh token's active row was already
// removed by a concurrent rotation; the caller lost the race.
var ErrSessionConsumed = errors.New("refresh session already consumed")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
