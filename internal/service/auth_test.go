package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/config"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/tokens"
)

type capturedEvent struct {
	Key   string
	Event map[string]any
}

type stubPublisher struct {
	events []capturedEvent
	fail   bool
}

func (p *stubPublisher) PublishEvent(_ context.Context, key string, event any) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, capturedEvent{Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *stubPublisher) lastType() string {
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1].Event["type"].(string)
}

func newTestAuth(t *testing.T) (*AuthService, *repo.GormRepo, *stubPublisher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.SeedRoles(db))

	store := repo.New(db)
	pub := &stubPublisher{}
	svc := &AuthService{
		Users:  store,
		Tokens: store,
		Issuer: tokens.Issuer{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		Events: pub,
	}
	return svc, store, pub
}

func register(t *testing.T, svc *AuthService, email string) *AuthResult {
	t.Helper()

	res, err := svc.Register(context.Background(), "Test User", email, "password123", "password123")
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, store, pub := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "new@example.com")
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	require.Len(t, res.User.Roles, 1)
	require.Equal(t, "customer", res.User.Roles[0].Name)
	require.Equal(t, "user_registered", pub.lastType())

	// The refresh token is persisted under its jti with a fingerprint,
	// never the raw token.
	claims, err := svc.Issuer.ParseRefresh(res.RefreshToken)
	require.NoError(t, err)
	row, err := store.FindValidActiveToken(ctx, claims.ID)
	require.NoError(t, err)
	require.Equal(t, tokens.Sha256Hex(res.RefreshToken), row.TokenHash)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "e@example.com", "short", "different")
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	register(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), "Other", "dup@example.com", "password123", "password123")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, store, pub := newTestAuth(t)
	ctx := context.Background()

	register(t, svc, "login@example.com")

	res, err := svc.Login(ctx, "login@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "user_logged_in", pub.lastType())

	// Registration and login each left a session.
	count, err := store.CountActiveSessions(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestLoginBadPassword(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "login@example.com")

	_, err := svc.Login(ctx, "login@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// A failed login must not mint a session.
	count, err := store.CountActiveSessions(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "rotate@example.com")

	rotated, err := svc.Refresh(ctx, res.RefreshToken, res.AccessToken)
	require.NoError(t, err)
	require.NotEqual(t, res.RefreshToken, rotated.RefreshToken)
	require.NotEqual(t, res.AccessToken, rotated.AccessToken)

	// Still exactly one active session.
	count, err := store.CountActiveSessions(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// The consumed refresh token and the replaced access token are dead.
	_, err = svc.Refresh(ctx, res.RefreshToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	oldAccess, err := tokens.DecodeUnverified(res.AccessToken)
	require.NoError(t, err)
	revoked, err := store.IsRevoked(ctx, oldAccess.ID)
	require.NoError(t, err)
	require.True(t, revoked)

	// The replacement pair works.
	_, err = svc.Refresh(ctx, rotated.RefreshToken, rotated.AccessToken)
	require.NoError(t, err)
}

func TestRefreshReplayLeavesAccessAlive(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "replay@example.com")

	rotated, err := svc.Refresh(ctx, res.RefreshToken, res.AccessToken)
	require.NoError(t, err)

	// A denied refresh must not take down the access token presented
	// alongside it.
	_, err = svc.Refresh(ctx, res.RefreshToken, rotated.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	claims, err := tokens.DecodeUnverified(rotated.AccessToken)
	require.NoError(t, err)
	revoked, err := store.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "garbage", "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// An access token presented as a refresh token fails the typ check.
	res := register(t, svc, "typ@example.com")
	_, err = svc.Refresh(ctx, res.AccessToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTamperedFingerprint(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "tamper@example.com")

	// Another token signed with the same secret and jti would still miss
	// the stored fingerprint; simulate by corrupting the stored hash.
	claims, err := svc.Issuer.ParseRefresh(res.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, store.DB.Table("refresh_tokens").
		Where("jti = ?", claims.ID).
		Update("token_hash", "different").Error)

	_, err = svc.Refresh(ctx, res.RefreshToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	svc, store, _ := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "logout@example.com")

	require.NoError(t, svc.Logout(ctx, res.AccessToken, res.RefreshToken))

	accessClaims, err := tokens.DecodeUnverified(res.AccessToken)
	require.NoError(t, err)
	revoked, err := store.IsRevoked(ctx, accessClaims.ID)
	require.NoError(t, err)
	require.True(t, revoked)

	_, err = svc.Refresh(ctx, res.RefreshToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	count, err := store.CountActiveSessions(ctx, res.User.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestLogoutAll(t *testing.T) {
	svc, store, pub := newTestAuth(t)
	ctx := context.Background()

	first := register(t, svc, "all@example.com")
	second, err := svc.Login(ctx, "all@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, second.AccessToken, second.RefreshToken, second.User.ID))
	require.Equal(t, "sessions_revoked", pub.lastType())

	count, err := store.CountActiveSessions(ctx, second.User.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	_, err = svc.Refresh(ctx, first.RefreshToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutAllForeignToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	victim := register(t, svc, "victim@example.com")
	attacker := register(t, svc, "attacker@example.com")

	err := svc.LogoutAll(ctx, victim.AccessToken, victim.RefreshToken, attacker.User.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestPublishFailureDoesNotFailAuth(t *testing.T) {
	svc, _, pub := newTestAuth(t)
	pub.fail = true

	res, err := svc.Register(context.Background(), "Test User", "fail@example.com", "password123", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, pub := newTestAuth(t)
	ctx := context.Background()

	res := register(t, svc, "reset@example.com")

	require.NoError(t, svc.ForgotPassword(ctx, "reset@example.com"))
	require.Equal(t, "password_reset_requested", pub.lastType())

	resetToken := pub.events[len(pub.events)-1].Event["reset_token"].(string)
	require.NotEmpty(t, resetToken)

	require.NoError(t, svc.ResetPassword(ctx, resetToken, "new-password-1"))

	// Old password dead, new one works, sessions revoked.
	_, err := svc.Login(ctx, "reset@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "reset@example.com", "new-password-1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.RefreshToken, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The token is single-use.
	err = svc.ResetPassword(ctx, resetToken, "another-password")
	require.Error(t, err)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, pub := newTestAuth(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
	require.Empty(t, pub.events)
}
