package models

import (
	"time"
)

type User struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string     `gorm:"not null"                 json:"name"`
	Email               string     `gorm:"unique;not null"          json:"email"`
	PasswordHash        string     `gorm:"not null"                 json:"-"`
	ResetTokenHash      *string    `gorm:"index"                    json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	Roles               []Role     `gorm:"many2many:user_roles"     json:"roles,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string       `gorm:"unique;not null"            json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Permission struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"unique;not null"          json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RefreshToken is an active session row. The raw token is never stored, only
// its sha256 fingerprint; lookups go through the embedded JTI.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	JTI       string    `gorm:"unique;not null" json:"jti"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	TokenHash string    `gorm:"not null"        json:"-"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokedToken marks a jti as rejected even while its signature still
// verifies. Rows are upserted, never duplicated, and can be purged once
// ExpiresAt has passed.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	JTI       string    `gorm:"unique;not null" json:"jti"`
	Reason    string    `gorm:"not null"        json:"reason"`
	ExpiresAt time.Time `gorm:"index;not null"  json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Coupon struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string    `gorm:"unique;not null"          json:"name"`
	Code                 string    `gorm:"not null"                 json:"code"`
	Quantity             uint      `json:"quantity"`
	MinimumPurchasePrice float64   `json:"minimum_purchase_price"`
	Expiry               time.Time `json:"expiry"`
	DiscountType         string    `gorm:"not null"                 json:"discount_type"`
	DiscountAmount       float64   `gorm:"not null"                 json:"discount_amount"`
	Status               string    `gorm:"not null;default:active"  json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Slider struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Offer       string        `json:"offer"`
	Title       string        `gorm:"not null"                 json:"title"`
	Subtitle    string        `json:"subtitle"`
	Description string        `json:"description"`
	ButtonLink  string        `json:"button_link"`
	Status      string        `gorm:"not null;default:active"  json:"status"`
	CreatedBy   uint          `gorm:"index;not null"           json:"created_by"`
	Images      []SliderImage `json:"images"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type SliderImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SliderID uint   `gorm:"index;not null" json:"slider_id"`
	ImageURL string `gorm:"not null"       json:"image_url"`
}

type ProductCategory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"unique;not null"          json:"slug"`
	Description string    `json:"description"`
	ParentID    *uint     `gorm:"index"                    json:"parent_id"`
	Status      string    `gorm:"not null;default:active"  json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
