package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"libraryManagement/internal/db"
	"libraryManagement/models"
)

func openRepoDB(t *testing.T, name string) (*BookRepository, *BorrowingRepository, *UserRepository) {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return NewBookRepository(d), NewBorrowingRepository(d), NewUserRepository(d)
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBookRepository_CreateListDelete(t *testing.T) {
	books, borrowings, users := openRepoDB(t, "bookcrud")
	ctx := context.Background()

	b, err := books.Create(ctx, "T", "A")
	require.NoError(t, err)
	require.True(t, b.Available)

	list, err := books.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.Book{ID: b.ID, Title: "T", Author: "A", Available: true}, list[0])

	u, err := users.Create(ctx, "alice", "pw", models.RoleUser)
	require.NoError(t, err)
	_, err = borrowings.Borrow(ctx, u.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, books.Delete(ctx, b.ID))

	got, err := books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	left, err := borrowings.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, left)
	list, err = books.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestBookRepository_Search(t *testing.T) {
	books, borrowings, users := openRepoDB(t, "booksearch")
	ctx := context.Background()

	dune, err := books.Create(ctx, "Dune", "Frank Herbert")
	require.NoError(t, err)
	_, err = books.Create(ctx, "Emma", "Jane Austen")
	require.NoError(t, err)
	_, err = books.Create(ctx, "100% Wolf", "Jayne Lyons")
	require.NoError(t, err)

	all, err := books.Search(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Dune", "Emma", "100% Wolf"}, titles(all))

	byAuthor, err := books.Search(ctx, "Austen")
	require.NoError(t, err)
	require.Equal(t, []string{"Emma"}, titles(byAuthor))

	// Wildcards in the term are literal.
	pct, err := books.Search(ctx, "%")
	require.NoError(t, err)
	require.Equal(t, []string{"100% Wolf"}, titles(pct))
	under, err := books.Search(ctx, "_")
	require.NoError(t, err)
	require.Empty(t, under)

	// Borrowed books drop out of the results.
	u, err := users.Create(ctx, "alice", "pw", models.RoleUser)
	require.NoError(t, err)
	_, err = borrowings.Borrow(ctx, u.ID, dune.ID)
	require.NoError(t, err)
	all, err = books.Search(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Emma", "100% Wolf"}, titles(all))
}
