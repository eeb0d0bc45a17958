package models

// Book is a catalog entry. Available is false while an open Borrowing references it.
type Book struct {
	ID        int64  `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Author    string `db:"author" json:"author"`
	Available bool   `db:"available" json:"available"`
}
