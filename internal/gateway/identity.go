package gateway

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"peershare-backend/internal/platform/web"
)

const ctxUserIDKey = "caller_id"

// Identity resolves the caller's user id. A Bearer token wins when a JWT
// secret is configured; otherwise the X-Sharer-User-Id header is taken as
// is. The resolved id is stored in the request context; endpoints that
// require it reject its absence themselves.
func Identity(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) > 0 {
			if id, ok := identityFromBearer(c.GetHeader("Authorization"), secret); ok {
				c.Set(ctxUserIDKey, id)
				c.Next()
				return
			}
		}
		if raw := c.GetHeader(web.HeaderUserID); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Set(ctxUserIDKey, raw)
			}
		}
		c.Next()
	}
}

// identityFromBearer extracts the numeric subject of a valid HS256 token.
func identityFromBearer(header string, secret []byte) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", false
	}
	if id, err := strconv.ParseInt(sub, 10, 64); err != nil || id <= 0 {
		return "", false
	}
	return sub, true
}

// callerID returns the resolved identity, empty when absent.
func callerID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
