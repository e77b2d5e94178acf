package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/karinashop/storefront/internal/storage"
)

const itemColumns = `id, name, category, price, description, created_at`

// CreateItem inserts a catalog entry and returns its key.
func (s *Store) CreateItem(ctx context.Context, item storage.Item) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return 0, fmt.Errorf("item name is required")
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO items (name, category, price, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		name,
		strings.TrimSpace(item.Category),
		item.Price,
		item.Description,
		toMillis(item.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("item insert id: %w", err)
	}
	return id, nil
}

// GetItem loads a catalog entry by key.
func (s *Store) GetItem(ctx context.Context, id int64) (storage.Item, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Item{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`,
		id,
	)
	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.Item{}, storage.ErrNotFound
		}
		return storage.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns the full catalog in insertion order.
func (s *Store) ListItems(ctx context.Context) ([]storage.Item, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
}

// ListItemsByCategory returns items carrying the given category tag.
func (s *Store) ListItemsByCategory(ctx context.Context, category string) ([]storage.Item, error) {
	return s.queryItems(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE category = ? ORDER BY id`,
		strings.TrimSpace(category),
	)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]storage.Item, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []storage.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (storage.Item, error) {
	var item storage.Item
	var createdAt int64
	if err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.Description, &createdAt); err != nil {
		return storage.Item{}, err
	}
	item.CreatedAt = fromMillis(createdAt)
	return item, nil
}

// CreateComment inserts an item comment and returns its key.
func (s *Store) CreateComment(ctx context.Context, comment storage.Comment) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO comments (item_id, author, body, created_at) VALUES (?, ?, ?, ?)`,
		comment.ItemID,
		comment.Author,
		comment.Body,
		toMillis(comment.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment insert id: %w", err)
	}
	return id, nil
}

// ListCommentsByItem returns an item's comments in insertion order.
func (s *Store) ListCommentsByItem(ctx context.Context, itemID int64) ([]storage.Comment, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, item_id, author, body, created_at FROM comments WHERE item_id = ? ORDER BY id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var comments []storage.Comment
	for rows.Next() {
		var comment storage.Comment
		var createdAt int64
		if err := rows.Scan(&comment.ID, &comment.ItemID, &comment.Author, &comment.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comment.CreatedAt = fromMillis(createdAt)
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment by key.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateRate appends a rating row and returns its key.
func (s *Store) CreateRate(ctx context.Context, rate storage.Rate) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rates (item_id, user_id, score) VALUES (?, ?, ?)`,
		rate.ItemID,
		rate.UserID,
		rate.Score,
	)
	if err != nil {
		return 0, fmt.Errorf("insert rate: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("rate insert id: %w", err)
	}
	return id, nil
}

// LatestRate returns the most recently inserted rating for (user, item).
func (s *Store) LatestRate(ctx context.Context, userID, itemID int64) (storage.Rate, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Rate{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, item_id, user_id, score FROM rates WHERE user_id = ? AND item_id = ? ORDER BY id DESC LIMIT 1`,
		userID,
		itemID,
	)
	var rate storage.Rate
	if err := row.Scan(&rate.ID, &rate.ItemID, &rate.UserID, &rate.Score); err != nil {
		if err == sql.ErrNoRows {
			return storage.Rate{}, storage.ErrNotFound
		}
		return storage.Rate{}, fmt.Errorf("get latest rate: %w", err)
	}
	return rate, nil
}
