package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/hash"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/models"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/tokens"
)

const DefaultRole = "customer"

const resetTokenTTL = time.Hour

// Client-facing failures are deliberately coarse: the same error covers
// unknown email and bad password, and every refresh failure mode.
var (
	ErrInvalidCredentials  = apperr.Unauthorized("Invalid credentials")
	ErrInvalidRefreshToken = apperr.Unauthorized("Invalid refresh token")
	ErrEmailTaken          = apperr.Conflict("Email already registered")
	ErrForbidden           = apperr.Forbidden("Forbidden")
)

// TokenStore is the persistence surface of the session lifecycle,
// implemented by repo.GormRepo.
type TokenStore interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	StoreRefreshToken(ctx context.Context, row *models.RefreshToken) error
	FindValidActiveToken(ctx context.Context, jti string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, jti, reason string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, oldJTI string, oldExpiresAt time.Time, next *models.RefreshToken, also *repo.Revocation) error
	RevokeAllForUser(ctx context.Context, userID uint, reason string) (int64, error)
}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, defaultRole string) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	StoreResetToken(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error
	FindUserByResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	ClearResetToken(ctx context.Context, userID uint) error
}

type AuthService struct {
	Users  UserStore
	Tokens TokenStore
	Issuer tokens.Issuer
	Events EventPublisher
}

type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

func roleNames(user *models.User) []string {
	names := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		names = append(names, role.Name)
	}
	return names
}

func (s *AuthService) issueAndStore(ctx context.Context, user *models.User) (*tokens.Pair, error) {
	pair, err := s.Issuer.Issue(user.ID, user.Email, roleNames(user))
	if err != nil {
		return nil, apperr.Internal("Error issuing tokens", err)
	}

	row := &models.RefreshToken{
		JTI:       pair.RefreshJTI,
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := s.Tokens.StoreRefreshToken(ctx, row); err != nil {
		return nil, apperr.Internal("Error persisting session", err)
	}
	return pair, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password, confirmPassword string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if password != confirmPassword {
		fields["confirmPassword"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, apperr.Internal("Error during registration", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: pwHash}
	if err := s.Users.CreateUser(ctx, user, DefaultRole); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register rejected", "reason", "email taken", "email", email)
			return nil, ErrEmailTaken
		}
		l.Error("register failed", "error", err)
		return nil, apperr.Internal("Error during registration", err)
	}

	created, err := s.Users.FindUserByID(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("Error during registration", err)
	}

	pair, err := s.issueAndStore(ctx, created)
	if err != nil {
		return nil, err
	}

	// Welcome email rides on the event stream; a publish failure never
	// fails the registration.
	publishEvent(ctx, s.Events, fmt.Sprint(created.ID), map[string]any{
		"type":    "user_registered",
		"user_id": created.ID,
		"email":   created.Email,
		"name":    created.Name,
	})

	l.Info("user registered", "user_id", created.ID)
	return &AuthResult{User: created, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, apperr.Validation("Validation failed", map[string]string{
			"email": "email and password are required",
		})
	}

	// Logs distinguish unknown email from bad password; the client
	// never does.
	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login failed", "reason", "unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, apperr.Internal("Error during login", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.Events, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("login successful", "user_id", user.ID)
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Refresh rotates a refresh token: the old session row atomically becomes
// a revocation record and the replacement goes in, so a stolen-and-reused
// token loses the race. Every failure mode collapses into
// ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh, rawAccess string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Issuer.ParseRefresh(rawRefresh)
	if err != nil {
		l.Warn("refresh rejected", "reason", "parse", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		l.Warn("refresh rejected", "reason", "revoked", "jti", claims.ID, "error", err)
		return nil, ErrInvalidRefreshToken
	}

	row, err := s.Tokens.FindValidActiveToken(ctx, claims.ID)
	if err != nil {
		l.Warn("refresh rejected", "reason", "no active session", "jti", claims.ID)
		return nil, ErrInvalidRefreshToken
	}
	if row.TokenHash != tokens.Sha256Hex(rawRefresh) {
		l.Warn("refresh rejected", "reason", "fingerprint mismatch", "jti", claims.ID)
		return nil, ErrInvalidRefreshToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		l.Warn("refresh rejected", "reason", "subject missing", "user_id", userID)
		return nil, ErrInvalidRefreshToken
	}

	// The old access token dies inside the rotation transaction so it
	// cannot outlive the refresh, and stays alive when the rotation
	// loses the race.
	var alsoRevoke *repo.Revocation
	if rawAccess != "" {
		accessClaims, err := tokens.DecodeUnverified(rawAccess)
		if err != nil || accessClaims.ID == "" || accessClaims.ExpiresAt == nil {
			l.Warn("refresh rejected", "reason", "bad access token")
			return nil, ErrInvalidRefreshToken
		}
		alsoRevoke = &repo.Revocation{
			JTI:       accessClaims.ID,
			Reason:    "refresh",
			ExpiresAt: accessClaims.ExpiresAt.Time,
		}
	}

	pair, err := s.Issuer.Issue(user.ID, user.Email, roleNames(user))
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	next := &models.RefreshToken{
		JTI:       pair.RefreshJTI,
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}

	if err := s.Tokens.RotateRefreshToken(ctx, claims.ID, row.ExpiresAt, next, alsoRevoke); err != nil {
		l.Warn("refresh rejected", "reason", "rotation", "jti", claims.ID, "error", err)
		return nil, ErrInvalidRefreshToken
	}

	l.Info("tokens rotated", "user_id", user.ID)
	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Logout revokes the presented pair. Without a refresh token only the
// access token is revoked.
func (s *AuthService) Logout(ctx context.Context, rawAccess, rawRefresh string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	accessClaims, err := tokens.DecodeUnverified(rawAccess)
	if err != nil || accessClaims.ID == "" || accessClaims.ExpiresAt == nil {
		return apperr.New(apperr.KindValidation, "Invalid token")
	}
	if err := s.Tokens.Revoke(ctx, accessClaims.ID, "logout", accessClaims.ExpiresAt.Time); err != nil {
		l.Error("logout failed", "reason", "access revoke", "error", err)
		return apperr.Internal("Error during logout", err)
	}

	if rawRefresh == "" {
		return nil
	}

	refreshClaims, err := tokens.DecodeUnverified(rawRefresh)
	if err != nil || refreshClaims.ID == "" || refreshClaims.ExpiresAt == nil {
		return apperr.New(apperr.KindValidation, "Invalid refresh token")
	}
	if err := s.Tokens.Revoke(ctx, refreshClaims.ID, "logout", refreshClaims.ExpiresAt.Time); err != nil {
		l.Error("logout failed", "reason", "refresh revoke", "error", err)
		return apperr.Internal("Error during logout", err)
	}

	l.Info("logout successful")
	return nil
}

// LogoutAll revokes the presented pair and then every other active
// session of the subject. Tokens that do not belong to subjectID are a
// hard Forbidden; a client cannot log out someone else's sessions.
func (s *AuthService) LogoutAll(ctx context.Context, rawAccess, rawRefresh string, subjectID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout_all", "user_id", subjectID)

	for _, raw := range []string{rawAccess, rawRefresh} {
		if raw == "" {
			continue
		}
		claims, err := tokens.DecodeUnverified(raw)
		if err != nil {
			return apperr.New(apperr.KindValidation, "Invalid token")
		}
		owner, err := claims.UserID()
		if err != nil || owner != subjectID {
			l.Warn("logout-all rejected", "reason", "token subject mismatch")
			return ErrForbidden
		}
	}

	if err := s.Logout(ctx, rawAccess, rawRefresh); err != nil {
		return err
	}

	revoked, err := s.Tokens.RevokeAllForUser(ctx, subjectID, "security")
	if err != nil {
		l.Error("logout-all failed", "error", err)
		return apperr.Internal("Error revoking sessions", err)
	}

	publishEvent(ctx, s.Events, fmt.Sprint(subjectID), map[string]any{
		"type":     "sessions_revoked",
		"user_id":  subjectID,
		"sessions": revoked,
	})

	l.Info("all sessions revoked", "sessions", revoked)
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Error loading profile", err)
	}
	return user, nil
}

// ForgotPassword never reveals whether the email exists: unknown
// addresses return success and only the log records the miss.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("password reset for unknown email", "email", email)
			return nil
		}
		return apperr.Internal("Error requesting password reset", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return apperr.Internal("Error requesting password reset", err)
	}
	resetToken := hex.EncodeToString(buf)

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.Users.StoreResetToken(ctx, user.ID, tokens.Sha256Hex(resetToken), expiresAt); err != nil {
		return apperr.Internal("Error requesting password reset", err)
	}

	publishEvent(ctx, s.Events, fmt.Sprint(user.ID), map[string]any{
		"type":        "password_reset_requested",
		"user_id":     user.ID,
		"email":       user.Email,
		"reset_token": resetToken,
	})

	l.Info("password reset requested", "user_id", user.ID)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if len(password) < 8 {
		return apperr.Validation("Validation failed", map[string]string{
			"password": "password must be at least 8 characters",
		})
	}

	user, err := s.Users.FindUserByResetToken(ctx, tokens.Sha256Hex(resetToken))
	if err != nil || user.ResetTokenExpiresAt == nil || user.ResetTokenExpiresAt.Before(time.Now()) {
		l.Warn("password reset rejected", "reason", "invalid or expired token")
		return apperr.New(apperr.KindValidation, "Invalid or expired reset token")
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return apperr.Internal("Error resetting password", err)
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, pwHash); err != nil {
		return apperr.Internal("Error resetting password", err)
	}
	if err := s.Users.ClearResetToken(ctx, user.ID); err != nil {
		return apperr.Internal("Error resetting password", err)
	}

	// A changed password invalidates every open session.
	if _, err := s.Tokens.RevokeAllForUser(ctx, user.ID, "security"); err != nil {
		return apperr.Internal("Error resetting password", err)
	}

	l.Info("password reset", "user_id", user.ID)
	return nil
}
