package storefront

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/karinashop/storefront/internal/storage"
)

// fakeStore is an in-memory storage.Store for service tests.
type fakeStore struct {
	users    []storage.User
	items    []storage.Item
	comments []storage.Comment
	rates    []storage.Rate
	cart     []storage.CartItem
	orders   []storage.Order

	nextID int64

	failListCart  error
	failPlacement error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) addItem(item storage.Item) storage.Item {
	item.ID = f.id()
	f.items = append(f.items, item)
	return item
}

func (f *fakeStore) CreateUser(_ context.Context, user storage.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, storage.ErrAlreadyExists
		}
	}
	user.ID = f.id()
	f.users = append(f.users, user)
	return user.ID, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (storage.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return storage.User{}, storage.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return storage.User{}, storage.ErrNotFound
}

func (f *fakeStore) CreateItem(_ context.Context, item storage.Item) (int64, error) {
	item.ID = f.id()
	f.items = append(f.items, item)
	return item.ID, nil
}

func (f *fakeStore) GetItem(_ context.Context, id int64) (storage.Item, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return storage.Item{}, storage.ErrNotFound
}

func (f *fakeStore) ListItems(_ context.Context) ([]storage.Item, error) {
	return slices.Clone(f.items), nil
}

func (f *fakeStore) ListItemsByCategory(_ context.Context, category string) ([]storage.Item, error) {
	var items []storage.Item
	for _, item := range f.items {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeStore) CreateComment(_ context.Context, comment storage.Comment) (int64, error) {
	comment.ID = f.id()
	f.comments = append(f.comments, comment)
	return comment.ID, nil
}

func (f *fakeStore) ListCommentsByItem(_ context.Context, itemID int64) ([]storage.Comment, error) {
	var comments []storage.Comment
	for _, comment := range f.comments {
		if comment.ItemID == itemID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id int64) error {
	for i, comment := range f.comments {
		if comment.ID == id {
			f.comments = slices.Delete(f.comments, i, i+1)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) CreateRate(_ context.Context, rate storage.Rate) (int64, error) {
	rate.ID = f.id()
	f.rates = append(f.rates, rate)
	return rate.ID, nil
}

func (f *fakeStore) LatestRate(_ context.Context, userID, itemID int64) (storage.Rate, error) {
	for i := len(f.rates) - 1; i >= 0; i-- {
		if f.rates[i].UserID == userID && f.rates[i].ItemID == itemID {
			return f.rates[i], nil
		}
	}
	return storage.Rate{}, storage.ErrNotFound
}

func (f *fakeStore) AddCartItem(_ context.Context, row storage.CartItem) (int64, error) {
	row.ID = f.id()
	f.cart = append(f.cart, row)
	return row.ID, nil
}

func (f *fakeStore) ListCartItemsByUser(_ context.Context, userID int64) ([]storage.CartItem, error) {
	if f.failListCart != nil {
		return nil, f.failListCart
	}
	var rows []storage.CartItem
	for _, row := range f.cart {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeStore) RemoveCartItem(_ context.Context, userID, itemID int64) (bool, error) {
	for i, row := range f.cart {
		if row.UserID == userID && row.ItemID == itemID {
			f.cart = slices.Delete(f.cart, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ClearCart(_ context.Context, userID int64) error {
	f.cart = slices.DeleteFunc(f.cart, func(row storage.CartItem) bool {
		return row.UserID == userID
	})
	return nil
}

func (f *fakeStore) PlaceOrder(ctx context.Context, userID int64, now time.Time) (storage.Order, error) {
	if f.failPlacement != nil {
		return storage.Order{}, f.failPlacement
	}
	rows, err := f.ListCartItemsByUser(ctx, userID)
	if err != nil {
		return storage.Order{}, err
	}
	if len(rows) == 0 {
		return storage.Order{}, storage.ErrEmptyCart
	}
	order := storage.Order{
		ID:        f.id(),
		UserID:    userID,
		Status:    storage.OrderStatusActive,
		CreatedAt: now,
	}
	for _, row := range rows {
		item, err := f.GetItem(ctx, row.ItemID)
		if err != nil {
			return storage.Order{}, err
		}
		order.Items = append(order.Items, storage.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
		})
	}
	if err := f.ClearCart(ctx, userID); err != nil {
		return storage.Order{}, err
	}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID int64) ([]storage.Order, error) {
	var orders []storage.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// fakePublisher records published orders and can simulate broker failures.
type fakePublisher struct {
	published []storage.Order
	fail      error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, order storage.Order) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, order)
	return nil
}

var errBrokerDown = errors.New("broker down")
