package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/models"
	"github.com/webinter/internship-backend/shared"
)

// UserService manages dashboard logins.
type UserService struct {
	DB *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{DB: db}
}

// GetByUsername returns a user or nil when absent.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, password, role, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (s *UserService) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE username = $2`, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q not found", username)
	}
	return nil
}

// SeedDefaultAdmin creates the default admin login when no admin exists
// yet, so a fresh deployment is reachable.
func (s *UserService) SeedDefaultAdmin(ctx context.Context) error {
	existing, err := s.GetByUsername(ctx, "admin")
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := shared.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO users (username, password, role) VALUES ($1, $2, 'admin')`, "admin", hash)
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	logrus.Warn("Default admin user created (admin / admin123). Change the password immediately.")
	return nil
}
