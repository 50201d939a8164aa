package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("malformed token")
)

type AccessClaims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) UserID() (uint, error)  { return subjectID(c.Subject) }
func (c *RefreshClaims) UserID() (uint, error) { return subjectID(c.Subject) }

func subjectID(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	return uint(id), nil
}

func NewJTI() string { return uuid.NewString() }

// Sha256Hex fingerprints a raw token for storage; the token itself never
// touches the database.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Issuer mints and verifies the access/refresh pair. The two classes use
// distinct secrets, so a refresh token can never pass an access check.
type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessJTI        string
	RefreshJTI       string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

func (i Issuer) Issue(userID uint, email string, roles []string) (*Pair, error) {
	now := time.Now()
	pair := &Pair{
		AccessJTI:        NewJTI(),
		RefreshJTI:       NewJTI(),
		AccessExpiresAt:  now.Add(i.AccessTTL),
		RefreshExpiresAt: now.Add(i.RefreshTTL),
	}
	sub := strconv.FormatUint(uint64(userID), 10)

	accessClaims := AccessClaims{
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        pair.AccessJTI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(pair.AccessExpiresAt),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(i.AccessSecret)
	if err != nil {
		return nil, err
	}
	pair.AccessToken = access

	refreshClaims := RefreshClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        pair.RefreshJTI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(pair.RefreshExpiresAt),
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(i.RefreshSecret)
	if err != nil {
		return nil, err
	}
	pair.RefreshToken = refresh

	return pair, nil
}

func (i Issuer) ParseAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(raw, &claims, i.AccessSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (i Issuer) ParseRefresh(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(raw, &claims, i.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidSignature
	}
	return &claims, nil
}

func parse(raw string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	switch {
	case err == nil && tkn.Valid:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidSignature
	}
}

// DecodeUnverified extracts claims without checking the signature. Only
// for bookkeeping on tokens the caller already accepted, e.g. reading the
// jti of an access token during logout.
func DecodeUnverified(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, ErrMalformed
	}
	return &claims, nil
}
