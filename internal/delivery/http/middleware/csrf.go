package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"skillsync-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
)

func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// SetSessionCookies stores the session token in an HttpOnly cookie next to a
// readable CSRF token for the double-submit check.
func SetSessionCookies(c *gin.Context, token string, expiresAt time.Time, secure bool) error {
	csrfToken, err := generateCSRFToken()
	if err != nil {
		return err
	}
	maxAge := int(time.Until(expiresAt).Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, maxAge, "/", "", secure, true)
	c.SetCookie(CSRFTokenCookieName, csrfToken, maxAge, "/", "", secure, false)
	return nil
}

// CSRFMiddleware implements the double-submit cookie check for requests
// authenticated by the auth_token cookie. Requests carrying an Authorization
// header are not sent automatically by browsers and pass through.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}
		if _, err := c.Cookie(AuthCookieName); err != nil {
			c.Next()
			return
		}

		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		headerToken := c.GetHeader(CSRFTokenHeaderName)

		if err != nil || csrfCookie == "" || headerToken == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(headerToken), []byte(csrfCookie)) != 1 {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}
