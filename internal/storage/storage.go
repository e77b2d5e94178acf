// Package storage defines persistence contracts for storefront state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrEmptyCart indicates an order placement found no cart rows to snapshot.
	ErrEmptyCart = errors.New("cart is empty")
)

// Role names attached to users. RoleAdmin marks storefront administrators.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// OrderStatusActive is the status assigned to every order at creation.
// No status transitions exist.
const OrderStatusActive = "active"

// User stores one registered account. Email doubles as the login name.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// Item stores one catalog entry. Price is in integer minor currency units.
type Item struct {
	ID          int64
	Name        string
	Category    string
	Price       int64
	Description string
	CreatedAt   time.Time
}

// Comment stores one item comment. Author is a display string, not a user key.
type Comment struct {
	ID        int64
	ItemID    int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// Rate stores one rating row. Rows are append-only; a user may accumulate
// several rows for the same item and the most recent one wins.
type Rate struct {
	ID     int64
	ItemID int64
	UserID int64
	Score  int
}

// CartItem stores one unit of an item in a user's cart. There is no quantity
// column: repeated adds insert repeated rows.
type CartItem struct {
	ID     int64
	UserID int64
	ItemID int64
}

// OrderItem stores one line of an order snapshot, copied from the catalog at
// placement time.
type OrderItem struct {
	ItemID   int64
	Name     string
	Category string
	Price    int64
}

// Order stores one placed order with its item snapshot.
type Order struct {
	ID        int64
	UserID    int64
	Status    string
	CreatedAt time.Time
	Items     []OrderItem
}

// UserStore persists accounts and their role sets.
type UserStore interface {
	// CreateUser inserts a user and returns its key. It returns
	// ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user User) (int64, error)
	// GetUser returns a user by key, or ErrNotFound.
	GetUser(ctx context.Context, id int64) (User, error)
	// GetUserByEmail returns a user by login email, or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// ItemStore persists the catalog.
type ItemStore interface {
	CreateItem(ctx context.Context, item Item) (int64, error)
	// GetItem returns an item by key, or ErrNotFound.
	GetItem(ctx context.Context, id int64) (Item, error)
	// ListItems returns the full catalog in insertion order.
	ListItems(ctx context.Context) ([]Item, error)
	// ListItemsByCategory returns items carrying the given category tag.
	ListItemsByCategory(ctx context.Context, category string) ([]Item, error)
}

// CommentStore persists item comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment Comment) (int64, error)
	ListCommentsByItem(ctx context.Context, itemID int64) ([]Comment, error)
	// DeleteComment removes a comment by key. It returns ErrNotFound when no
	// such row exists.
	DeleteComment(ctx context.Context, id int64) error
}

// RateStore persists append-only rating rows.
type RateStore interface {
	CreateRate(ctx context.Context, rate Rate) (int64, error)
	// LatestRate returns the most recently inserted rating for the
	// (user, item) pair, or ErrNotFound when the user has not rated the item.
	LatestRate(ctx context.Context, userID, itemID int64) (Rate, error)
}

// CartStore persists cart rows.
type CartStore interface {
	AddCartItem(ctx context.Context, row CartItem) (int64, error)
	ListCartItemsByUser(ctx context.Context, userID int64) ([]CartItem, error)
	// RemoveCartItem deletes one row matching (user, item) and reports
	// whether a row was deleted. A miss is not an error.
	RemoveCartItem(ctx context.Context, userID, itemID int64) (bool, error)
	// ClearCart deletes every cart row for the user.
	ClearCart(ctx context.Context, userID int64) error
}

// OrderStore persists orders.
type OrderStore interface {
	// PlaceOrder atomically snapshots the user's cart into a new order and
	// clears the cart. Either both effects are visible or neither is. It
	// returns ErrEmptyCart when the user has no cart rows and ErrNotFound
	// when a cart row references a missing item.
	PlaceOrder(ctx context.Context, userID int64, now time.Time) (Order, error)
	// ListOrdersByUser returns the user's orders with their item snapshots.
	ListOrdersByUser(ctx context.Context, userID int64) ([]Order, error)
}

// Store aggregates every entity collection behind one gateway.
type Store interface {
	UserStore
	ItemStore
	CommentStore
	RateStore
	CartStore
	OrderStore
}
