package sqlite

import (
	"context"
	"fmt"

	"github.com/karinashop/storefront/internal/storage"
)

// AddCartItem inserts one cart row for (user, item).
//
// Repeated adds insert repeated rows; the cart has no quantity column.
func (s *Store) AddCartItem(ctx context.Context, row storage.CartItem) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cart_items (user_id, item_id) VALUES (?, ?)`,
		row.UserID,
		row.ItemID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert cart item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("cart item insert id: %w", err)
	}
	return id, nil
}

// ListCartItemsByUser returns the user's cart rows in insertion order.
func (s *Store) ListCartItemsByUser(ctx context.Context, userID int64) ([]storage.CartItem, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, item_id FROM cart_items WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cart []storage.CartItem
	for rows.Next() {
		var row storage.CartItem
		if err := rows.Scan(&row.ID, &row.UserID, &row.ItemID); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart = append(cart, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return cart, nil
}

// RemoveCartItem deletes one row matching (user, item) and reports whether a
// row was deleted. Removing an absent row is a no-op, not an error.
func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cart_items
		 WHERE id = (SELECT id FROM cart_items WHERE user_id = ? AND item_id = ? ORDER BY id LIMIT 1)`,
		userID,
		itemID,
	)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove cart item rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearCart deletes every cart row for the user.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
