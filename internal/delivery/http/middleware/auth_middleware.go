package middleware

import (
	"context"
	"net/http"
	"strings"

	"skillsync-backend/internal/delivery/http/response"
	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the cookie browsers may carry the session token in.
const AuthCookieName = "auth_token"

func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Try to get token from Header
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if scheme, token, ok := strings.Cut(authHeader, " "); ok && strings.EqualFold(scheme, "Bearer") {
				tokenString = strings.TrimSpace(token)
			}
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			// 2. Try to get token from Cookie
			tokenString = cookie
		}

		if tokenString == "" {
			reject(c, "missing_token", "Authorization header or auth_token cookie required")
			return
		}

		identity, err := authUC.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			reject(c, "invalid_token", "Invalid or expired token.")
			return
		}

		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Set(string(domain.KeyUserEmail), identity.Email)

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, identity.UserID)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, identity.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func reject(c *gin.Context, reason, message string) {
	security.DefaultLogger().LogTokenRejected(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		requestID(c),
		c.FullPath(),
		reason,
	)
	response.Error(c, http.StatusUnauthorized, message)
	c.Abort()
}
