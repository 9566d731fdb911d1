// ABOUTME: User credential store methods for the SQLite backend
// ABOUTME: Covers user creation, existence checks, and credential verification

package store

import (
	"context"
	"fmt"
)

// UserExists reports whether a user with the given username is registered.
// Returns false for unknown usernames (not an error).
func (s *SQLiteStore) UserExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM userinfo WHERE username = ?`

	var count int
	err := s.db.QueryRowContext(ctx, query, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}

	return count > 0, nil
}

// CreateUser registers a new user.
// Returns ErrUserExists if the username is already taken; the stored
// password is left untouched in that case.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	exists, err := s.UserExists(ctx, user.Username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}

	query := `INSERT INTO userinfo (username, password) VALUES (?, ?)`

	_, err = s.db.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "username", user.Username)
	return nil
}

// VerifyCredentials checks a username/password pair against the stored
// credentials. Both fields must match exactly (case-sensitive).
// Returns ErrUserNotFound if the username is not registered; a wrong
// password for a known user is (false, nil).
func (s *SQLiteStore) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	exists, err := s.UserExists(ctx, username)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrUserNotFound
	}

	query := `SELECT COUNT(*) FROM userinfo WHERE username = ? AND password = ?`

	var count int
	err = s.db.QueryRowContext(ctx, query, username, password).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("verifying credentials: %w", err)
	}

	return count > 0, nil
}
