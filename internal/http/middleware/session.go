package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/domain"
)

// SessionCookieName is the HTTP-only cookie carrying the session JWT.
const SessionCookieName = "ip_session"

// SessionAuth validates the session cookie (or a Bearer token for API
// clients) and loads the claims into the gin context. The session registry
// is the revocation authority, so a syntactically valid token with a
// revoked session row is rejected here.
func SessionAuth(sessionSvc domain.SessionService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := sessionSvc.Validate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrSessionExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			case errors.Is(err, domain.ErrSessionRevoked):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session revoked"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			}
			c.Abort()
			return
		}

		c.Set("session_token", token)
		c.Set("phone", claims.Phone)
		c.Set("name", claims.Name)
		c.Set("company", claims.Company)
		c.Set("user_role", claims.Role)

		c.Next()
	})
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
