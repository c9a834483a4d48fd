// Package user persists accounts and their issued access tokens.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrEmailTaken is returned when registering an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

// User is an account. The password hash never leaves the API.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// PostgresStore persists users and auth tokens.
type PostgresStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS auth_tokens (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token_id TEXT NOT NULL UNIQUE
);
`

// NewPostgresStore creates the user tables if they do not exist. Every other
// store references users, so wire this one first.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create user tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Create inserts a user and returns it with its id filled in.
func (s *PostgresStore) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	u := &User{Name: name, Email: email, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
		name, email, passwordHash,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// ByEmail returns the user with the given email, or (nil, nil) if absent.
func (s *PostgresStore) ByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		"SELECT id, name, email, password_hash FROM users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// ByID returns the user with the given id, or (nil, nil) if absent.
func (s *PostgresStore) ByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		"SELECT id, name, email, password_hash FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

// EmailExists reports whether an account with the email exists.
func (s *PostgresStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// SaveToken records an issued token id so it can be revoked on logout.
func (s *PostgresStore) SaveToken(ctx context.Context, userID int64, tokenID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, token_id) VALUES ($1, $2)", userID, tokenID)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// TokenValid reports whether the token id is still issued (not revoked).
func (s *PostgresStore) TokenValid(ctx context.Context, tokenID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE token_id = $1)", tokenID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return exists, nil
}

// RevokeTokens deletes every token issued to the user.
func (s *PostgresStore) RevokeTokens(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}
