package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"libraryManagement/models"
)

// SessionRepository stores server-side login sessions.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository using the wall clock.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// WithClock returns a copy of the repository that reads time from now.
func (r *SessionRepository) WithClock(now func() time.Time) *SessionRepository {
	return &SessionRepository{db: r.db, now: now}
}

// Create opens a session for userID that expires after ttl.
func (r *SessionRepository) Create(ctx context.Context, userID int64, ttl time.Duration) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := r.now().UTC().Truncate(time.Second)
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix())
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns the unexpired session with the given id together with its user.
// Both are nil when the session is unknown, expired, or its user was deleted.
func (r *SessionRepository) Lookup(ctx context.Context, id string) (*models.Session, *models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s models.Session
	var u models.User
	var created, expires int64
	var role string
	err := r.db.QueryRowContext(ctx, `
SELECT s.id, s.user_id, s.created_at, s.expires_at, u.id, u.username, u.password, u.role
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.id = ? AND s.expires_at > ?`, id, r.now().UTC().Unix()).
		Scan(&s.ID, &s.UserID, &created, &expires, &u.ID, &u.Username, &u.Password, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	s.CreatedAt = time.Unix(created, 0).UTC()
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	u.Role = models.Role(role)
	return &s, &u, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpired prunes sessions past their expiry and returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, r.now().UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
