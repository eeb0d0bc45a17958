package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libraryManagement/models"
)

type addUserForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Role     string `form:"role" binding:"required,oneof=admin user"`
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.Users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, "list users")
		return
	}
	c.HTML(http.StatusOK, "users.html", s.page(c, "Users", gin.H{"Users": users}))
}

func (s *Server) addUserForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add_user.html", s.page(c, "Add user", nil))
}

func (s *Server) addUser(c *gin.Context) {
	var f addUserForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusBadRequest, "add_user.html", s.page(c, "Add user", gin.H{"Error": "username, password and a role of admin or user are required"}))
		return
	}
	if _, err := s.Users.Create(c.Request.Context(), f.Username, f.Password, models.Role(f.Role)); err != nil {
		s.fail(c, err, "create user")
		return
	}
	redirect(c, "/users")
}

// deleteUser removes the account; its borrowings stay behind.
func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.Users.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err, "delete user")
		return
	}
	redirect(c, "/users")
}
