package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runIdentity(t *testing.T, secret, fallback, authHeader string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Identity(secret, fallback)(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIdentity_FallbackWithoutToken(t *testing.T) {
	c, called, err := runIdentity(t, "secret", "user123", "")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "user123", c.Get(CtxUserID))
}

func TestIdentity_FallbackWithoutSecret(t *testing.T) {
	// No secret configured: tokens are not even inspected.
	c, called, err := runIdentity(t, "", "user123", "Bearer whatever")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "user123", c.Get(CtxUserID))
}

func TestIdentity_TokenSubjectWins(t *testing.T) {
	tok := signToken(t, "secret", "alice")
	c, called, err := runIdentity(t, "secret", "user123", "Bearer "+tok)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "alice", c.Get(CtxUserID))
}

func TestIdentity_BadTokenRejected(t *testing.T) {
	tok := signToken(t, "other-secret", "alice")
	_, called, err := runIdentity(t, "secret", "user123", "Bearer "+tok)
	assert.False(t, called)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestIdentity_MalformedHeaderRejected(t *testing.T) {
	_, called, err := runIdentity(t, "secret", "user123", "Token abc")
	assert.False(t, called)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
