package httpserver

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"libraryManagement/internal/auth"
	"libraryManagement/internal/config"
	"libraryManagement/internal/logging"
	"libraryManagement/internal/metrics"
	"libraryManagement/repository"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server bundles the dependencies of the HTTP handlers.
type Server struct {
	Users      repository.UserRepositoryI
	Books      repository.BookRepositoryI
	Borrowings repository.BorrowingRepositoryI
	Sessions   repository.SessionRepositoryI
	DB         Pinger
	Auth       config.AuthConfig
	Log        logrus.FieldLogger
}

// NewRouter registers every route on a new gin engine.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	r.Use(
		gin.Recovery(),
		logging.RequestID(),
		logging.AccessLog(s.Log),
		metrics.Middleware(),
		auth.SessionMiddleware(s.Auth.SessionSecret, s.Sessions, s.Log),
	)

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", metrics.Handler())

	r.GET("/", s.index)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	authed := r.Group("/", auth.RequireAuthenticated())
	{
		authed.GET("/dashboard", s.dashboard)
		authed.GET("/books", s.listBooks)
		authed.GET("/search_books", s.searchBooks)
		authed.POST("/search_books", s.searchBooks)
	}

	admin := r.Group("/", auth.RequireAdmin())
	{
		admin.GET("/users", s.listUsers)
		admin.GET("/add_user", s.addUserForm)
		admin.POST("/add_user", s.addUser)
		admin.POST("/delete_user/:id", s.deleteUser)
		admin.GET("/add_book", s.addBookForm)
		admin.POST("/add_book", s.addBook)
		admin.POST("/delete_book/:id", s.deleteBook)
		admin.GET("/borrowings", s.listBorrowings)
		admin.POST("/return_book/:id", s.returnBook)
	}

	user := r.Group("/", auth.RequireUser())
	{
		user.POST("/borrow_book/:id", s.borrowBook)
	}
	return r
}

// Start serves h on addr and returns a shutdown function.
func Start(addr string, h http.Handler, log logrus.FieldLogger) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":8080"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http serve")
		}
	}()
	return srv.Shutdown, nil
}

// page builds template data with the fields the layout needs.
func (s *Server) page(c *gin.Context, title string, extra gin.H) gin.H {
	p := auth.Current(c)
	data := gin.H{
		"Title":     title,
		"Principal": p,
		"IsAdmin":   auth.IsAdmin(p),
		"IsUser":    auth.IsUser(p),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// fail logs a datastore error and answers 500.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	logging.FromGin(s.Log, c).WithError(err).Error(msg)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// pathID parses the :id parameter. Non-numeric ids answer 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return 0, false
	}
	return id, true
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if s.DB == nil || s.DB.PingContext(ctx) != nil {
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
