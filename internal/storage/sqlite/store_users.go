package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/karinashop/storefront/internal/storage"
)

// CreateUser persists an account and its role set atomically.
func (s *Store) CreateUser(ctx context.Context, user storage.User) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return 0, fmt.Errorf("email is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create user: %w", err)
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)`,
		email,
		user.PasswordHash,
		toMillis(user.CreatedAt),
	)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return 0, storage.ErrAlreadyExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("user insert id: %w", err)
	}

	for _, role := range user.Roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`,
			id,
			role,
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert user role: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create user: %w", err)
	}
	return id, nil
}

// GetUser loads an account by key, including its role set.
func (s *Store) GetUser(ctx context.Context, id int64) (storage.User, error) {
	if s == nil || s.sqlDB == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`,
		id,
	)
	return s.scanUser(ctx, row)
}

// GetUserByEmail loads an account by login email, including its role set.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	if s == nil || s.sqlDB == nil {
		return storage.User{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	)
	return s.scanUser(ctx, row)
}

func (s *Store) scanUser(ctx context.Context, row *sql.Row) (storage.User, error) {
	var user storage.User
	var createdAt int64
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)

	roles, err := s.userRoles(ctx, user.ID)
	if err != nil {
		return storage.User{}, err
	}
	user.Roles = roles
	return user, nil
}

func (s *Store) userRoles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}
	return roles, nil
}
