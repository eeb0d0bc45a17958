package models

// Borrowing links a user to a book. It is open while ReturnDate is nil.
// UserID is not a foreign key: deleting a user leaves its borrowings in place.
type Borrowing struct {
	ID         int64   `db:"id" json:"id"`
	UserID     int64   `db:"user_id" json:"user_id"`
	BookID     int64   `db:"book_id" json:"book_id"`
	BorrowDate string  `db:"borrow_date" json:"borrow_date"`
	ReturnDate *string `db:"return_date" json:"return_date,omitempty"`
}

// Open reports whether the book has not been returned yet.
func (b Borrowing) Open() bool {
	return b.ReturnDate == nil
}

// BorrowingView is a Borrowing joined with the book title and borrower name for listings.
// Username is empty when the borrower has been deleted.
type BorrowingView struct {
	Borrowing
	BookTitle string `json:"book_title"`
	Username  string `json:"username"`
}
