package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"libraryManagement/models"
)

func TestBorrowingRepository_BorrowAndReturn(t *testing.T) {
	books, borrowings, users := openRepoDB(t, "borrowflow")
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "pw", models.RoleUser)
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "pw", models.RoleUser)
	require.NoError(t, err)
	book, err := books.Create(ctx, "T", "A")
	require.NoError(t, err)

	br, err := borrowings.Borrow(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	require.NotNil(t, br)
	require.Equal(t, alice.ID, br.UserID)
	require.Equal(t, book.ID, br.BookID)
	require.NotEmpty(t, br.BorrowDate)
	require.True(t, br.Open())

	got, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.False(t, got.Available)

	// Second borrow by anyone is a no-op.
	again, err := borrowings.Borrow(ctx, bob.ID, book.ID)
	require.NoError(t, err)
	require.Nil(t, again)
	again, err = borrowings.Borrow(ctx, alice.ID, book.ID)
	require.NoError(t, err)
	require.Nil(t, again)
	list, err := borrowings.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Return closes the borrowing and frees the book.
	ret, err := borrowings.Return(ctx, br.ID)
	require.NoError(t, err)
	require.NotNil(t, ret)
	require.False(t, ret.Open())
	got, err = books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.True(t, got.Available)

	// Returning twice is a no-op.
	ret, err = borrowings.Return(ctx, br.ID)
	require.NoError(t, err)
	require.Nil(t, ret)
	closed, err := borrowings.GetByID(ctx, br.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ReturnDate)
}

func TestBorrowingRepository_MissingTargetsAreNoOps(t *testing.T) {
	_, borrowings, _ := openRepoDB(t, "borrowmissing")
	ctx := context.Background()

	br, err := borrowings.Borrow(ctx, 1, 999)
	require.NoError(t, err)
	require.Nil(t, br)

	ret, err := borrowings.Return(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, ret)

	got, err := borrowings.GetByID(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestBorrowingRepository_ListJoinsTitlesAndUsers(t *testing.T) {
	books, borrowings, users := openRepoDB(t, "borrowlist")
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "pw", models.RoleUser)
	require.NoError(t, err)
	b1, err := books.Create(ctx, "First", "A")
	require.NoError(t, err)
	b2, err := books.Create(ctx, "Second", "B")
	require.NoError(t, err)

	first, err := borrowings.Borrow(ctx, alice.ID, b1.ID)
	require.NoError(t, err)
	_, err = borrowings.Return(ctx, first.ID)
	require.NoError(t, err)
	second, err := borrowings.Borrow(ctx, alice.ID, b2.ID)
	require.NoError(t, err)

	// Deleting the user leaves its borrowings in place.
	require.NoError(t, users.Delete(ctx, alice.ID))

	list, err := borrowings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, "Second", list[0].BookTitle)
	require.Empty(t, list[0].Username)
	require.True(t, list[0].Open())
	require.Equal(t, first.ID, list[1].ID)
	require.False(t, list[1].Open())
}

func TestBorrowingRepository_ConcurrentBorrowSingleWinner(t *testing.T) {
	books, borrowings, users := openRepoDB(t, "borrowrace")
	ctx := context.Background()

	book, err := books.Create(ctx, "Contested", "A")
	require.NoError(t, err)
	var ids []int64
	for _, name := range []string{"u1", "u2", "u3", "u4"} {
		u, err := users.Create(ctx, name, "pw", models.RoleUser)
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, id := range ids {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			br, err := borrowings.Borrow(ctx, userID, book.ID)
			if err != nil {
				return
			}
			if br != nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	// Writers that lose the lock may fail outright; none may double-borrow.
	require.LessOrEqual(t, wins, 1)
	list, err := borrowings.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, list, wins)
}
