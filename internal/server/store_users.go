package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type userDoc struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// UserDocStore keeps users as JSONB documents and login sessions as plain
// rows so logout can revoke a token before it expires.
type UserDocStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserDocStore(db *sql.DB) *UserDocStore {
	return &UserDocStore{db: db, now: time.Now}
}

func (s *UserDocStore) CreateUser(ctx context.Context, u User, passwordHash string) (User, error) {
	u.ID = newID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = nowUTC()

	data, err := json.Marshal(userDoc{User: u, PasswordHash: passwordHash})
	if err != nil {
		return User{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, role, data, created_at) VALUES (?, ?, ?, jsonb(?), ?)`,
		u.ID, u.Email, u.Role, string(data), u.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *UserDocStore) UserByEmail(ctx context.Context, email string) (User, string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	var doc userDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return User{}, "", err
	}
	return doc.User, doc.PasswordHash, nil
}

func (s *UserDocStore) UserByID(ctx context.Context, id string) (User, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM users WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	var doc userDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return User{}, err
	}
	return doc.User, nil
}

func (s *UserDocStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *UserDocStore) CreateSession(ctx context.Context, userID string, expiresAt time.Time) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		id, userID, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SessionActive returns ErrNotFound for unknown, revoked and expired
// sessions.
func (s *UserDocStore) SessionActive(ctx context.Context, sessionID string) error {
	var expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM user_sessions WHERE id = ?`, sessionID,
	).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, expires)
	if err != nil {
		return err
	}
	if !s.now().Before(t) {
		return ErrNotFound
	}
	return nil
}

func (s *UserDocStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = ?`, sessionID)
	return err
}
