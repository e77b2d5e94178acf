// Package storefront holds the business rules behind every storefront
// request: cart math, catalog queries, order placement, comments and
// ratings. It is stateless between calls and owns no transport or
// persistence concerns.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/karinashop/storefront/internal/storage"
)

const (
	// homeNewItemLimit caps the "newest" strip on the home page.
	homeNewItemLimit = 11
	// homeTopItemLimit caps the "cheapest" strip on the home page.
	homeTopItemLimit = 3
	// suggestionCount is the number of random suggestion slots on an item page.
	suggestionCount = 3
)

// ErrEmptyCart is returned by PlaceOrder when the principal's cart holds no
// rows. Re-exported from storage so callers need not import both packages.
var ErrEmptyCart = storage.ErrEmptyCart

// Principal identifies the authenticated user behind a request. It is
// threaded explicitly through every operation; there is no ambient session
// state.
type Principal struct {
	UserID int64
	Email  string
	Roles  []string
}

// Name returns the principal's display name, which is the login email.
func (p Principal) Name() string {
	return p.Email
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, storage.RoleAdmin)
}

// OrderPublisher broadcasts placed orders to interested consumers.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order storage.Order) error
}

// Service implements storefront request logic over the storage contracts.
type Service struct {
	store     storage.Store
	publisher OrderPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	pick      func(n int) int
}

// Option adjusts Service construction.
type Option func(*Service)

// WithPublisher attaches an order event publisher. Publishing is best-effort
// and never affects order placement outcomes.
func WithPublisher(publisher OrderPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPicker overrides the random index source used for suggestions, for
// tests.
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) {
		if pick != nil {
			s.pick = pick
		}
	}
}

// NewService creates a storefront service over the given store.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("storefront"),
		now:    time.Now,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CartTotal sums the prices of every item referenced by the principal's cart
// rows. An empty cart totals zero.
func (s *Service) CartTotal(ctx context.Context, principal Principal) (int64, error) {
	rows, err := s.store.ListCartItemsByUser(ctx, principal.UserID)
	if err != nil {
		return 0, fmt.Errorf("list cart: %w", err)
	}
	var total int64
	for _, row := range rows {
		item, err := s.store.GetItem(ctx, row.ItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return 0, fmt.Errorf("resolve cart item %d: %w", row.ItemID, err)
		}
		total += item.Price
	}
	return total, nil
}

// ItemDetail is the view data for one item page.
type ItemDetail struct {
	Item        storage.Item
	Comments    []storage.Comment
	Suggestions []storage.Item
	RateScore   int
	Rated       bool
}

// GetItemDetail loads one item page: the item, the principal's rating for it,
// its comments and three random catalog suggestions.
//
// Suggestion slots are independent uniform draws over the full catalog, so
// duplicates and the item itself may appear; that matches the storefront's
// intentionally loose "you may also like" behavior.
func (s *Service) GetItemDetail(ctx context.Context, principal Principal, itemID int64) (ItemDetail, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ItemDetail{}, storage.ErrNotFound
		}
		return ItemDetail{}, fmt.Errorf("get item: %w", err)
	}

	detail := ItemDetail{Item: item}

	rate, err := s.store.LatestRate(ctx, principal.UserID, itemID)
	switch {
	case err == nil:
		detail.RateScore = rate.Score
		detail.Rated = true
	case errors.Is(err, storage.ErrNotFound):
		// Unrated items render without a score.
	default:
		return ItemDetail{}, fmt.Errorf("get rate: %w", err)
	}

	comments, err := s.store.ListCommentsByItem(ctx, itemID)
	if err != nil {
		return ItemDetail{}, fmt.Errorf("list comments: %w", err)
	}
	detail.Comments = comments

	catalog, err := s.store.ListItems(ctx)
	if err != nil {
		return ItemDetail{}, fmt.Errorf("list catalog: %w", err)
	}
	if len(catalog) > 0 {
		suggestions := make([]storage.Item, 0, suggestionCount)
		for range suggestionCount {
			suggestions = append(suggestions, catalog[s.pick(len(catalog))])
		}
		detail.Suggestions = suggestions
	}
	return detail, nil
}

// CatalogByCategory returns every item carrying the given category tag, in
// store-native order.
func (s *Service) CatalogByCategory(ctx context.Context, category string) ([]storage.Item, error) {
	items, err := s.store.ListItemsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list category %q: %w", category, err)
	}
	return items, nil
}

// CartView is the view data for the cart page.
type CartView struct {
	Items []storage.Item
	Sum   int64
}

// GetCartView joins the principal's cart rows to catalog items and computes
// the sum. One slice element per cart row: duplicates represent units.
func (s *Service) GetCartView(ctx context.Context, principal Principal) (CartView, error) {
	rows, err := s.store.ListCartItemsByUser(ctx, principal.UserID)
	if err != nil {
		return CartView{}, fmt.Errorf("list cart: %w", err)
	}
	view := CartView{}
	for _, row := range rows {
		item, err := s.store.GetItem(ctx, row.ItemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return CartView{}, fmt.Errorf("resolve cart item %d: %w", row.ItemID, err)
		}
		view.Items = append(view.Items, item)
		view.Sum += item.Price
	}
	return view, nil
}

// ListOrders returns the principal's orders with their item snapshots.
func (s *Service) ListOrders(ctx context.Context, principal Principal) ([]storage.Order, error) {
	orders, err := s.store.ListOrdersByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// AddToCart inserts one cart row for (principal, item). The item key is not
// checked for existence; dangling rows surface at order placement.
func (s *Service) AddToCart(ctx context.Context, principal Principal, itemID int64) error {
	if _, err := s.store.AddCartItem(ctx, storage.CartItem{
		UserID: principal.UserID,
		ItemID: itemID,
	}); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// RemoveFromCart deletes one cart row matching (principal, item). Removing a
// row that does not exist is a silent no-op.
func (s *Service) RemoveFromCart(ctx context.Context, principal Principal, itemID int64) error {
	removed, err := s.store.RemoveCartItem(ctx, principal.UserID, itemID)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if !removed {
		s.logger.DebugContext(ctx, "remove from cart matched no row",
			slog.Int64("user_id", principal.UserID),
			slog.Int64("item_id", itemID))
	}
	return nil
}

// AddComment stores a comment on an item, stamped with the current time and
// the principal's display name. Only the display string is stored, not the
// user key, so comments survive account deletion unchanged.
func (s *Service) AddComment(ctx context.Context, principal Principal, itemID int64, body string) error {
	if _, err := s.store.CreateComment(ctx, storage.Comment{
		ItemID:    itemID,
		Author:    principal.Name(),
		Body:      body,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment by key.
//
// No ownership or admin check is performed: any authenticated user can
// delete any comment. This authorization gap is inherited behavior, kept
// deliberately rather than silently fixed.
func (s *Service) DeleteComment(ctx context.Context, _ Principal, commentID int64) error {
	err := s.store.DeleteComment(ctx, commentID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CategoryTags returns the distinct category tags present in the catalog,
// sorted. The search form renders one checkbox per tag.
func (s *Service) CategoryTags(ctx context.Context) ([]string, error) {
	catalog, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	var tags []string
	for _, item := range catalog {
		if !slices.Contains(tags, item.Category) {
			tags = append(tags, item.Category)
		}
	}
	slices.Sort(tags)
	return tags, nil
}

// SearchItems returns catalog items whose name contains the title fragment
// (case-insensitive), whose price does not exceed maxPrice, and whose
// category is in the given set.
//
// An empty category set matches nothing: every item fails the any-category
// test. That literal behavior is load-bearing for the search form, where an
// unchecked filter means "no results", and is covered by tests.
func (s *Service) SearchItems(ctx context.Context, title string, maxPrice int64, categories []string) ([]storage.Item, error) {
	catalog, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	fragment := strings.ToLower(title)
	var matches []storage.Item
	for _, item := range catalog {
		if !strings.Contains(strings.ToLower(item.Name), fragment) {
			continue
		}
		if item.Price > maxPrice {
			continue
		}
		if !slices.Contains(categories, item.Category) {
			continue
		}
		matches = append(matches, item)
	}
	return matches, nil
}

// PlaceOrder atomically converts the principal's cart into an order.
//
// The snapshot-and-clear runs as one storage transaction. When an order
// publisher is configured the placed order is broadcast afterwards;
// publish failures are logged and never roll back the order.
func (s *Service) PlaceOrder(ctx context.Context, principal Principal) (storage.Order, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.PlaceOrder",
		trace.WithAttributes(attribute.Int64("user.id", principal.UserID)))
	defer span.End()

	order, err := s.store.PlaceOrder(ctx, principal.UserID, s.now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrEmptyCart) {
			return storage.Order{}, ErrEmptyCart
		}
		return storage.Order{}, fmt.Errorf("place order: %w", err)
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.WarnContext(ctx, "publish order placed",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()))
		}
	}
	return order, nil
}

// RateItem appends a rating row for (principal, item). Ratings are
// append-only; the most recent row is the one shown.
func (s *Service) RateItem(ctx context.Context, principal Principal, itemID int64, score int) error {
	if _, err := s.store.CreateRate(ctx, storage.Rate{
		ItemID: itemID,
		UserID: principal.UserID,
		Score:  score,
	}); err != nil {
		return fmt.Errorf("rate item: %w", err)
	}
	return nil
}

// HomeListing is the view data for the home page.
type HomeListing struct {
	NewItems []storage.Item
	TopItems []storage.Item
}

// GetHomeListing computes the home page strips: the 11 most recently created
// items and the 3 lowest-priced items. Ties keep store-native order, and
// both strips shrink when the catalog is smaller than their caps.
func (s *Service) GetHomeListing(ctx context.Context) (HomeListing, error) {
	catalog, err := s.store.ListItems(ctx)
	if err != nil {
		return HomeListing{}, fmt.Errorf("list catalog: %w", err)
	}

	newest := slices.Clone(catalog)
	slices.SortStableFunc(newest, func(a, b storage.Item) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	cheapest := slices.Clone(catalog)
	slices.SortStableFunc(cheapest, func(a, b storage.Item) int {
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		default:
			return 0
		}
	})

	return HomeListing{
		NewItems: newest[:min(homeNewItemLimit, len(newest))],
		TopItems: cheapest[:min(homeTopItemLimit, len(cheapest))],
	}, nil
}
