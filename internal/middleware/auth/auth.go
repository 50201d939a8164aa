package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/tokens"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextUserID      = "userID"
	ContextClaims      = "claims"
	ContextAccessToken = "accessToken"
)

// RevocationChecker answers whether a jti has been revoked. Implemented
// by repo.GormRepo.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RoleFetcher resolves the subject's current roles and permissions from
// the database, so a role change takes effect before the token expires.
type RoleFetcher interface {
	FetchRolesAndPermissions(ctx context.Context, userID uint) ([]string, []string, error)
}

var errInvalidToken = apperr.Unauthorized("Invalid token")

// BearerToken extracts the token from the Authorization header, or ""
// when the header is absent or not a bearer scheme.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// Authenticate verifies the bearer access token and loads the subject
// into the request context. The revocation check runs before signature
// verification and fails closed: if the store is unreachable the request
// is denied. Every failure mode returns the same 401.
func Authenticate(issuer tokens.Issuer, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			raw := BearerToken(c)
			if raw == "" {
				return errInvalidToken
			}

			unverified, err := tokens.DecodeUnverified(raw)
			if err != nil || unverified.ID == "" {
				return errInvalidToken
			}
			isRevoked, err := revoked.IsRevoked(ctx, unverified.ID)
			if err != nil {
				l.Error("revocation check failed", "jti", unverified.ID, "error", err)
				return errInvalidToken
			}
			if isRevoked {
				l.Warn("revoked token presented", "jti", unverified.ID)
				return errInvalidToken
			}

			claims, err := issuer.ParseAccess(raw)
			if err != nil {
				return errInvalidToken
			}
			userID, err := claims.UserID()
			if err != nil {
				return errInvalidToken
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextClaims, claims)
			c.Set(ContextAccessToken, raw)
			return next(c)
		}
	}
}

// Authorize gates a route on the subject holding at least one of the
// required roles. Roles come from the database, not the token, so a
// revoked role locks the user out immediately.
func Authorize(fetcher RoleFetcher, required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID, ok := c.Get(ContextUserID).(uint)
			if !ok {
				return errInvalidToken
			}

			roles, _, err := fetcher.FetchRolesAndPermissions(ctx, userID)
			if err != nil {
				logging.FromContext(ctx).Error("role fetch failed", "user_id", userID, "error", err)
				return apperr.Internal("Error checking permissions", err)
			}
			if len(roles) == 0 {
				return apperr.Forbidden("User has no roles or permissions assigned")
			}

			held := make(map[string]bool, len(roles))
			for _, role := range roles {
				held[role] = true
			}
			for _, role := range required {
				if held[role] {
					return next(c)
				}
			}

			logging.FromContext(ctx).Warn("access denied", "user_id", userID, "required", required)
			return apperr.Forbidden("Access denied. Required roles: " + strings.Join(required, ", "))
		}
	}
}

// SubjectID returns the authenticated user's id from the context.
func SubjectID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}
