package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestIssuer() Issuer {
	return Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(42, "user@example.com", []string{"admin", "customer"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessJTI, pair.RefreshJTI)

	claims, err := issuer.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, []string{"admin", "customer"}, claims.Roles)
	require.Equal(t, pair.AccessJTI, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, uint(42), userID)

	refreshClaims, err := issuer.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "refresh", refreshClaims.TokenType)
	require.Equal(t, pair.RefreshJTI, refreshClaims.ID)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(1, "user@example.com", nil)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSignature)

	_, err = issuer.ParseRefresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	other := newTestIssuer()
	other.AccessSecret = []byte("some-other-secret")

	pair, err := issuer.Issue(1, "user@example.com", nil)
	require.NoError(t, err)

	_, err = other.ParseAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseExpired(t *testing.T) {
	issuer := newTestIssuer()
	issuer.AccessTTL = -time.Minute

	pair, err := issuer.Issue(1, "user@example.com", nil)
	require.NoError(t, err)

	_, err = issuer.ParseAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrExpired)
}

func TestParseMalformed(t *testing.T) {
	issuer := newTestIssuer()

	_, err := issuer.ParseAccess("not-a-token")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeUnverified(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(7, "user@example.com", nil)
	require.NoError(t, err)

	claims, err := DecodeUnverified(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, pair.AccessJTI, claims.ID)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, uint(7), userID)

	_, err = DecodeUnverified("garbage")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSha256HexStable(t *testing.T) {
	require.Equal(t, Sha256Hex("token"), Sha256Hex("token"))
	require.NotEqual(t, Sha256Hex("token"), Sha256Hex("token2"))
	require.Len(t, Sha256Hex("token"), 64)
}
