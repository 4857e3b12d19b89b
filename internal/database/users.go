package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"streamerverse/models"
)

// ErrUsernameTaken is returned when creating an account with a username
// that already exists.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository persists registered accounts.
type UserRepository struct {
	conn *sql.DB
}

// NewUserRepository creates a repository over the shared connection.
func NewUserRepository(conn *sql.DB) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts a new account and returns it with its assigned ID.
func (r *UserRepository) Create(username, passwordHash string) (models.User, error) {
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := withWriteRetry(func() error {
		res, err := r.conn.Exec(
			`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
			user.Username, user.PasswordHash, user.CreatedAt,
		)
		if err != nil {
			return err
		}
		user.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetByUsername returns the account with the given username, or nil when
// none exists.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	row := r.conn.QueryRow(
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

// GetByID returns the account with the given ID, or nil when none exists.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	row := r.conn.QueryRow(
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// Count returns the number of registered accounts.
func (r *UserRepository) Count() (int64, error) {
	var n int64
	if err := r.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
