package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraryManagement/models"
)

// BorrowingRepository runs the borrow/return workflow. Each transition is a
// single transaction whose guard is the conditional UPDATE itself.
type BorrowingRepository struct {
	db *sql.DB
}

// NewBorrowingRepository creates a new BorrowingRepository.
func NewBorrowingRepository(db *sql.DB) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

const borrowingColumns = `id, user_id, book_id, borrow_date, return_date`

// Borrow marks the book unavailable and records a borrowing for userID.
// It returns nil without error when the book is missing or already borrowed.
func (r *BorrowingRepository) Borrow(ctx context.Context, userID, bookID int64) (*models.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE books SET available = 0 WHERE id = ? AND available = 1`, bookID)
	if err != nil {
		return nil, fmt.Errorf("reserve book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	res, err = tx.ExecContext(ctx, `INSERT INTO borrowings (user_id, book_id) VALUES (?, ?)`, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("insert borrowing: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b, err := scanBorrowing(tx.QueryRowContext(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

// Return closes an open borrowing and makes its book available again.
// It returns nil without error when the borrowing is missing or already closed.
func (r *BorrowingRepository) Return(ctx context.Context, borrowingID int64) (*models.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE borrowings SET return_date = CURRENT_TIMESTAMP WHERE id = ? AND return_date IS NULL`, borrowingID)
	if err != nil {
		return nil, fmt.Errorf("close borrowing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b, err := scanBorrowing(tx.QueryRowContext(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE id = ?`, borrowingID))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE books SET available = 1 WHERE id = ?`, b.BookID); err != nil {
		return nil, fmt.Errorf("release book: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BorrowingRepository) GetByID(ctx context.Context, id int64) (*models.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBorrowing(r.db.QueryRowContext(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListByBook returns the borrowings of a book, oldest first.
func (r *BorrowingRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Borrowing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+borrowingColumns+` FROM borrowings WHERE book_id = ? ORDER BY id`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Borrowing
	for rows.Next() {
		b, err := scanBorrowing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every borrowing joined with its book title and borrower name.
// Open borrowings come first, then the most recent.
func (r *BorrowingRepository) List(ctx context.Context) ([]models.BorrowingView, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
SELECT br.id, br.user_id, br.book_id, br.borrow_date, br.return_date, b.title, COALESCE(u.username, '')
FROM borrowings br
JOIN books b ON b.id = br.book_id
LEFT JOIN users u ON u.id = br.user_id
ORDER BY br.return_date IS NOT NULL, br.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.BorrowingView
	for rows.Next() {
		var v models.BorrowingView
		var returned sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.BookID, &v.BorrowDate, &returned, &v.BookTitle, &v.Username); err != nil {
			return nil, err
		}
		if returned.Valid {
			s := returned.String
			v.ReturnDate = &s
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBorrowing(row rowScanner) (*models.Borrowing, error) {
	var b models.Borrowing
	var returned sql.NullString
	if err := row.Scan(&b.ID, &b.UserID, &b.BookID, &b.BorrowDate, &returned); err != nil {
		return nil, err
	}
	if returned.Valid {
		s := returned.String
		b.ReturnDate = &s
	}
	return &b, nil
}
