package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addBookForm struct {
	Title  string `form:"title" binding:"required"`
	Author string `form:"author" binding:"required"`
}

type searchForm struct {
	Term string `form:"search_term"`
}

func (s *Server) listBooks(c *gin.Context) {
	books, err := s.Books.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, "list books")
		return
	}
	c.HTML(http.StatusOK, "books.html", s.page(c, "Books", gin.H{"Books": books}))
}

func (s *Server) addBookForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add_book.html", s.page(c, "Add book", nil))
}

func (s *Server) addBook(c *gin.Context) {
	var f addBookForm
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusBadRequest, "add_book.html", s.page(c, "Add book", gin.H{"Error": "title and author are required"}))
		return
	}
	if _, err := s.Books.Create(c.Request.Context(), f.Title, f.Author); err != nil {
		s.fail(c, err, "create book")
		return
	}
	redirect(c, "/books")
}

// deleteBook removes the book together with its borrowings.
func (s *Server) deleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.Books.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err, "delete book")
		return
	}
	redirect(c, "/books")
}

// searchBooks lists available books matching search_term. POST reads the form,
// GET reads the query string; a bare GET lists every available book.
func (s *Server) searchBooks(c *gin.Context) {
	var f searchForm
	if err := c.ShouldBind(&f); err != nil {
		f.Term = ""
	}
	books, err := s.Books.Search(c.Request.Context(), f.Term)
	if err != nil {
		s.fail(c, err, "search books")
		return
	}
	c.HTML(http.StatusOK, "search_books.html", s.page(c, "Search books", gin.H{"Books": books, "SearchTerm": f.Term}))
}
