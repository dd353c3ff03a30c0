package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peershare-backend/internal/platform/web"
)

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func resolveIdentity(secret []byte, decorate func(*http.Request)) string {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(secret))

	var resolved string
	r.GET("/probe", func(c *gin.Context) {
		resolved = callerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	decorate(req)
	r.ServeHTTP(httptest.NewRecorder(), req)
	return resolved
}

func TestIdentityFromHeader(t *testing.T) {
	got := resolveIdentity(nil, func(req *http.Request) {
		req.Header.Set(web.HeaderUserID, "42")
	})
	assert.Equal(t, "42", got)
}

func TestIdentityRejectsNonPositiveHeader(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc"} {
		got := resolveIdentity(nil, func(req *http.Request) {
			req.Header.Set(web.HeaderUserID, raw)
		})
		assert.Empty(t, got, raw)
	}
}

func TestIdentityAbsent(t *testing.T) {
	got := resolveIdentity(nil, func(*http.Request) {})
	assert.Empty(t, got)
}

func TestIdentityFromBearer(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, jwt.SigningMethodHS256, "7")

	got := resolveIdentity(secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, "7", got)
}

func TestIdentityBearerWinsOverHeader(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, jwt.SigningMethodHS256, "7")

	got := resolveIdentity(secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(web.HeaderUserID, "42")
	})
	assert.Equal(t, "7", got)
}

func TestIdentityInvalidBearerFallsBackToHeader(t *testing.T) {
	secret := []byte("test-secret")
	forged := signToken(t, []byte("other-secret"), jwt.SigningMethodHS256, "7")

	got := resolveIdentity(secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+forged)
		req.Header.Set(web.HeaderUserID, "42")
	})
	assert.Equal(t, "42", got)
}

func TestIdentityBearerIgnoredWithoutSecret(t *testing.T) {
	token := signToken(t, []byte("any"), jwt.SigningMethodHS256, "7")

	got := resolveIdentity(nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Empty(t, got)
}

func TestIdentityRejectsNonNumericSubject(t *testing.T) {
	secret := []byte("test-secret")
	token := signToken(t, secret, jwt.SigningMethodHS256, "alice")

	got := resolveIdentity(secret, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Empty(t, got)
}
