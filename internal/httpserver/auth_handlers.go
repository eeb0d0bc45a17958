package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"libraryManagement/internal/auth"
	"libraryManagement/internal/logging"
	"libraryManagement/internal/metrics"
)

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page(c, "Library", nil))
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", s.page(c, "Login", gin.H{"Error": false}))
}

// login compares the submitted credentials verbatim against the users table.
func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u, err := s.Users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		s.fail(c, err, "authenticate")
		return
	}
	if u == nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		c.HTML(http.StatusOK, "login.html", s.page(c, "Login", gin.H{"Error": true}))
		return
	}

	sess, err := s.Sessions.Create(c.Request.Context(), u.ID, s.Auth.SessionTTL)
	if err != nil {
		s.fail(c, err, "create session")
		return
	}
	token, err := auth.IssueToken(s.Auth.SessionSecret, sess, u)
	if err != nil {
		s.fail(c, err, "issue session token")
		return
	}
	auth.SetSessionCookie(c, token, s.Auth.SessionTTL, s.Auth.CookieSecure)
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logging.FromGin(s.Log, c).WithField("user_id", u.ID).Info("login")
	redirect(c, "/dashboard")
}

// logout revokes the server-side session, if any, and clears the cookie.
func (s *Server) logout(c *gin.Context) {
	if p := auth.Current(c); p != nil {
		if err := s.Sessions.Delete(c.Request.Context(), p.SessionID); err != nil {
			s.fail(c, err, "delete session")
			return
		}
	}
	auth.ClearSessionCookie(c, s.Auth.CookieSecure)
	redirect(c, "/")
}

func (s *Server) dashboard(c *gin.Context) {
	p := auth.Current(c)
	role := string(p.Role)
	if role != "" {
		role = strings.ToUpper(role[:1]) + role[1:]
	}
	c.HTML(http.StatusOK, "dashboard.html", s.page(c, "Dashboard", gin.H{"RoleTitle": role}))
}
