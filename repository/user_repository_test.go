package repository

import (
	"context"
	"testing"

	"libraryManagement/internal/db"
	"libraryManagement/models"
)

func TestUserRepository_CRUDAndQueries(t *testing.T) {
	d, err := db.Open("file:userrepo?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := NewUserRepository(d)
	ctx := context.Background()

	// Create
	u, err := repo.Create(ctx, "alice", "pw", models.RoleUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Username != "alice" || u.Role != models.RoleUser {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// GetByID
	g, err := repo.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Username != "alice" {
		t.Fatalf("get by id: %v %+v", err, g)
	}

	// GetByUsername
	g2, err := repo.GetByUsername(ctx, "alice")
	if err != nil || g2 == nil || g2.ID != u.ID {
		t.Fatalf("get by username: %v %+v", err, g2)
	}

	// List
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	// Duplicate username is rejected by the schema
	if _, err := repo.Create(ctx, "alice", "other", models.RoleAdmin); err == nil {
		t.Fatalf("expected unique constraint error")
	}

	// Delete
	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, u.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected user deleted, got: %+v err=%v", gone, err)
	}
}

func TestUserRepository_Authenticate(t *testing.T) {
	d, err := db.Open("file:userauth?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := NewUserRepository(d)
	ctx := context.Background()
	if _, err := repo.Create(ctx, "Bob", "Secret", models.RoleAdmin); err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		username, password string
		ok                 bool
	}{
		{"Bob", "Secret", true},
		{"bob", "Secret", false},
		{"Bob", "secret", false},
		{"Bob", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		u, err := repo.Authenticate(ctx, c.username, c.password)
		if err != nil {
			t.Fatalf("authenticate %q/%q: %v", c.username, c.password, err)
		}
		if (u != nil) != c.ok {
			t.Fatalf("authenticate %q/%q = %+v, want ok=%v", c.username, c.password, u, c.ok)
		}
		if u != nil && u.Role != models.RoleAdmin {
			t.Fatalf("role = %q, want admin", u.Role)
		}
	}
}

func TestUserRepository_EnsureAdmin(t *testing.T) {
	d, err := db.Open("file:userensure?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	repo := NewUserRepository(d)
	ctx := context.Background()

	created, err := repo.EnsureAdmin(ctx, models.NewAdmin("root", "pw"))
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = repo.EnsureAdmin(ctx, models.NewAdmin("root", "changed"))
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
	u, _ := repo.GetByUsername(ctx, "root")
	if u == nil || u.Password != "pw" || u.Role != models.RoleAdmin {
		t.Fatalf("unexpected seeded admin: %+v", u)
	}
}
