package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karinashop/storefront/internal/storage"
)

// PlaceOrder atomically snapshots the user's cart into a new order and
// clears the cart.
//
// The cart read, the item resolution, the cart delete and the order insert
// all run inside one transaction: either the cart is cleared and the order
// exists, or neither happens.
func (s *Store) PlaceOrder(ctx context.Context, userID int64, now time.Time) (storage.Order, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Order{}, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Order{}, fmt.Errorf("begin place order: %w", err)
	}

	rows, err := tx.QueryContext(
		ctx,
		`SELECT item_id FROM cart_items WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		_ = tx.Rollback()
		return storage.Order{}, fmt.Errorf("read cart: %w", err)
	}
	var itemIDs []int64
	for rows.Next() {
		var itemID int64
		if err := rows.Scan(&itemID); err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return storage.Order{}, fmt.Errorf("scan cart row: %w", err)
		}
		itemIDs = append(itemIDs, itemID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		_ = tx.Rollback()
		return storage.Order{}, fmt.Errorf("iterate cart rows: %w", err)
	}
	_ = rows.Close()

	if len(itemIDs) == 0 {
		_ = tx.Rollback()
		return storage.Order{}, storage.ErrEmptyCart
	}

	snapshot := make([]storage.OrderItem, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		row := tx.QueryRowContext(
			ctx,
			`SELECT name, category, price FROM items WHERE id = ?`,
			itemID,
		)
		line := storage.OrderItem{ItemID: itemID}
		if err := row.Scan(&line.Name, &line.Category, &line.Price); err != nil {
			_ = tx.Rollback()
			if err == sql.ErrNoRows {
				return storage.Order{}, storage.ErrNotFound
			}
			return storage.Order{}, fmt.Errorf("resolve cart item %d: %w", itemID, err)
		}
		snapshot = append(snapshot, line)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		_ = tx.Rollback()
		return storage.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO orders (user_id, status, created_at) VALUES (?, ?, ?)`,
		userID,
		storage.OrderStatusActive,
		toMillis(now),
	)
	if err != nil {
		_ = tx.Rollback()
		return storage.Order{}, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return storage.Order{}, fmt.Errorf("order insert id: %w", err)
	}

	for _, line := range snapshot {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO order_items (order_id, item_id, name, category, price) VALUES (?, ?, ?, ?, ?)`,
			orderID,
			line.ItemID,
			line.Name,
			line.Category,
			line.Price,
		); err != nil {
			_ = tx.Rollback()
			return storage.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Order{}, fmt.Errorf("commit place order: %w", err)
	}

	return storage.Order{
		ID:        orderID,
		UserID:    userID,
		Status:    storage.OrderStatusActive,
		CreatedAt: fromMillis(toMillis(now)),
		Items:     snapshot,
	}, nil
}

// ListOrdersByUser returns the user's orders with their item snapshots.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]storage.Order, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, status, created_at FROM orders WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var orders []storage.Order
	for rows.Next() {
		var order storage.Order
		var createdAt int64
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.CreatedAt = fromMillis(createdAt)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int64) ([]storage.OrderItem, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT item_id, name, category, price FROM order_items WHERE order_id = ? ORDER BY rowid`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []storage.OrderItem
	for rows.Next() {
		var line storage.OrderItem
		if err := rows.Scan(&line.ItemID, &line.Name, &line.Category, &line.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
