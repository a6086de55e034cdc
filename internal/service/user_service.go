package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sales-tracker/internal/audit"
	"sales-tracker/internal/auth"
	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
)

// UserService owns account creation and the login decision.
type UserService interface {
	Register(ctx context.Context, username, fullName, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password, ipAddress string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
	audit *audit.Recorder
}

func NewUserService(users repository.UserRepository, auditor *audit.Recorder) UserService {
	return &userService{
		users: users,
		audit: auditor,
	}
}

// Register validates and creates a new employee account. The password is
// hashed before it goes anywhere near the store; if hashing fails the whole
// operation fails rather than falling back.
func (s *userService) Register(ctx context.Context, username, fullName, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if username == "" || fullName == "" || password == "" {
		return nil, newValidationError("Username, full name, and password are required")
	}
	// Length limits are in characters, not bytes; multibyte usernames count
	// the same as ASCII ones.
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return nil, newValidationError("Username must be between 3 and 50 characters")
	}
	if utf8.RuneCountInString(password) < 6 {
		return nil, newValidationError("Password must be at least 6 characters long")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Authenticate decides a login attempt and appends exactly one audit record
// with the true outcome, whether or not the username exists. Unknown user and
// wrong password are deliberately indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, username, password, ipAddress string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		s.audit.Record(username, false, ipAddress)
		return nil, newValidationError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.audit.Record(username, false, ipAddress)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.audit.Record(username, false, ipAddress)
		return nil, ErrInvalidCredentials
	}

	s.audit.Record(username, true, ipAddress)
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
