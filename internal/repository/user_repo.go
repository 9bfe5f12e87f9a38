package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventlog/internal/models"
)

var (
	ErrUserExists   = errors.New("username already taken")
	ErrUserNotFound = errors.New("user not found")
)

const (
	insertUserSQL = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
ON CONFLICT(username) DO NOTHING`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
)

// UserSQLite keeps API accounts in the users table.
type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

var _ Authorization = (*UserSQLite)(nil)

func (r *UserSQLite) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert user %q: rows affected: %w", username, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUserExists, username)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user %q: last insert id: %w", username, err)
	}
	return int(id), nil
}

func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	case err != nil:
		return models.User{}, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}
