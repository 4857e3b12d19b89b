package accounts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"streamerverse/internal/database"
	"streamerverse/models"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service manages registered accounts backed by the users table.
type Service struct {
	repo *database.UserRepository
}

// NewService creates an accounts service over the given repository.
func NewService(repo *database.UserRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ErrUsernameRequired
	}
	if password == "" {
		return models.User{}, ErrPasswordRequired
	}
	if len(password) < 6 {
		return models.User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(username, string(hash))
	if errors.Is(err, database.ErrUsernameTaken) {
		return models.User{}, ErrUsernameTaken
	}
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return *user, nil
}

// Get returns the account with the given ID, or nil when none exists.
func (s *Service) Get(id int64) (*models.User, error) {
	return s.repo.GetByID(id)
}

// Count returns the number of registered accounts.
func (s *Service) Count() (int64, error) {
	return s.repo.Count()
}
