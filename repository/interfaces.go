package repository

import (
	"context"
	"time"

	"libraryManagement/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, password string, role models.Role) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// BookRepositoryI defines operations on Book entities.
type BookRepositoryI interface {
	Create(ctx context.Context, title, author string) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Search(ctx context.Context, term string) ([]models.Book, error)
	Delete(ctx context.Context, id int64) error
}

// BorrowingRepositoryI defines the borrow/return workflow.
type BorrowingRepositoryI interface {
	Borrow(ctx context.Context, userID, bookID int64) (*models.Borrowing, error)
	Return(ctx context.Context, borrowingID int64) (*models.Borrowing, error)
	List(ctx context.Context) ([]models.BorrowingView, error)
}

// SessionRepositoryI defines operations on login sessions.
type SessionRepositoryI interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (*models.Session, error)
	Lookup(ctx context.Context, id string) (*models.Session, *models.User, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ UserRepositoryI      = (*UserRepository)(nil)
	_ BookRepositoryI      = (*BookRepository)(nil)
	_ BorrowingRepositoryI = (*BorrowingRepository)(nil)
	_ SessionRepositoryI   = (*SessionRepository)(nil)
)
