package middleware

import (
	"net/http"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	AuthCookieName = "auth_token"
	principalKey   = "principal"
)

// bearerOrCookie returns the token and whether it came from the session cookie.
func bearerOrCookie(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), false
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// AuthMiddleware resolves the caller into a domain.Principal.
func AuthMiddleware(issuer domain.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := bearerOrCookie(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		principal, err := issuer.Parse(token)
		if err != nil {
			security.DefaultLogger().LogUnauthorized(c.Request.Context(), c.ClientIP(), GetRequestID(c), "invalid_token")
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set(principalKey, *principal)
		c.Set(string(domain.KeyUserID), principal.UserID)
		c.Set(string(domain.KeyUserEmail), principal.Email)
		c.Set(string(domain.KeyFullName), principal.FullName)
		c.Next()
	}
}

// GetPrincipal returns the principal set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
