package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"libraryManagement/internal/auth"
	"libraryManagement/internal/logging"
	"libraryManagement/internal/metrics"
)

// borrowBook always redirects to the search page; an unavailable book is a silent no-op.
func (s *Server) borrowBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p := auth.Current(c)
	b, err := s.Borrowings.Borrow(c.Request.Context(), p.UserID, id)
	if err != nil {
		s.fail(c, err, "borrow book")
		return
	}
	if b == nil {
		metrics.BorrowingsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
	} else {
		metrics.BorrowingsTotal.WithLabelValues(metrics.OutcomeBorrowed).Inc()
		logging.FromGin(s.Log, c).WithFields(logrus.Fields{"book_id": id, "borrowing_id": b.ID, "user_id": p.UserID}).Info("book borrowed")
	}
	redirect(c, "/search_books")
}

// returnBook closes an open borrowing; a missing or closed one is a silent no-op.
func (s *Server) returnBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := s.Borrowings.Return(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "return book")
		return
	}
	if b == nil {
		metrics.ReturnsTotal.WithLabelValues(metrics.OutcomeNotOpen).Inc()
	} else {
		metrics.ReturnsTotal.WithLabelValues(metrics.OutcomeReturned).Inc()
		logging.FromGin(s.Log, c).WithFields(logrus.Fields{"book_id": b.BookID, "borrowing_id": b.ID}).Info("book returned")
	}
	redirect(c, "/borrowings")
}

func (s *Server) listBorrowings(c *gin.Context) {
	list, err := s.Borrowings.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, "list borrowings")
		return
	}
	c.HTML(http.StatusOK, "borrowings.html", s.page(c, "Borrowings", gin.H{"Borrowings": list}))
}
