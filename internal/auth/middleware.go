package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"libraryManagement/repository"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"
	// AccessDenied is the body of every 403 response.
	AccessDenied = "Access denied"
)

// SessionMiddleware resolves the session cookie into a Principal stored in the
// request context. Requests without a valid session pass through anonymously;
// the Require* guards decide what to do with them.
func SessionMiddleware(secret string, sessions repository.SessionRepositoryI, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		claims, err := ParseToken(raw, secret)
		if err != nil {
			log.WithError(err).Debug("discarding session cookie")
			c.Next()
			return
		}
		s, u, err := sessions.Lookup(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.WithError(err).Error("lookup session")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if s == nil || u == nil || u.ID != claims.UserID {
			c.Next()
			return
		}
		p := &Principal{UserID: u.ID, Username: u.Username, Role: u.Role, SessionID: s.ID}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// Current returns the principal of the request, or nil.
func Current(c *gin.Context) *Principal {
	p, _ := FromContext(c.Request.Context())
	return p
}

// RequireAuthenticated redirects anonymous requests to the login page.
func RequireAuthenticated() gin.HandlerFunc {
	return guard(IsAuthenticated)
}

// RequireAdmin allows admins only.
func RequireAdmin() gin.HandlerFunc {
	return guard(IsAdmin)
}

// RequireUser allows regular users only.
func RequireUser() gin.HandlerFunc {
	return guard(IsUser)
}

// guard redirects anonymous requests to login and answers 403 when allow rejects
// an authenticated principal.
func guard(allow func(*Principal) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Current(c)
		if !IsAuthenticated(p) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if !allow(p) {
			c.String(http.StatusForbidden, AccessDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores the token in an HttpOnly cookie that lives for ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
