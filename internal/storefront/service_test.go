package storefront

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karinashop/storefront/internal/storage"
)

var (
	alice = Principal{UserID: 100, Email: "alice@example.com", Roles: []string{storage.RoleUser}}
	admin = Principal{UserID: 101, Email: "root@example.com", Roles: []string{storage.RoleUser, storage.RoleAdmin}}
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestPrincipalIsAdmin(t *testing.T) {
	if alice.IsAdmin() {
		t.Fatal("alice must not be admin")
	}
	if !admin.IsAdmin() {
		t.Fatal("admin role not detected")
	}
}

func TestCartTotalEmptyCart(t *testing.T) {
	svc := NewService(newFakeStore())

	total, err := svc.CartTotal(context.Background(), alice)
	if err != nil {
		t.Fatalf("cart total: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestCartTotalSumsRows(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Category: "kitchen", Price: 700})
	lamp := store.addItem(storage.Item{Name: "Lamp", Category: "home", Price: 2500})
	svc := NewService(store)
	ctx := context.Background()

	// Two mugs and a lamp; duplicates are units.
	for _, itemID := range []int64{mug.ID, lamp.ID, mug.ID} {
		if err := svc.AddToCart(ctx, alice, itemID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}

	total, err := svc.CartTotal(ctx, alice)
	if err != nil {
		t.Fatalf("cart total: %v", err)
	}
	if total != 700+2500+700 {
		t.Fatalf("total = %d", total)
	}
}

func TestCartTotalIgnoresOtherUsers(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.AddToCart(ctx, admin, mug.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	total, err := svc.CartTotal(ctx, alice)
	if err != nil {
		t.Fatalf("cart total: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestGetItemDetailNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.GetItemDetail(context.Background(), alice, 42)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetItemDetail(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Category: "kitchen", Price: 700})
	store.addItem(storage.Item{Name: "Lamp", Category: "home", Price: 2500})
	store.addItem(storage.Item{Name: "Pan", Category: "kitchen", Price: 1800})

	picks := []int{2, 0, 0}
	svc := NewService(store, WithPicker(func(n int) int {
		pick := picks[0] % n
		picks = picks[1:]
		return pick
	}))
	ctx := context.Background()

	if err := svc.AddComment(ctx, alice, mug.ID, "solid mug"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if err := svc.RateItem(ctx, alice, mug.ID, 2); err != nil {
		t.Fatalf("rate item: %v", err)
	}
	if err := svc.RateItem(ctx, alice, mug.ID, 5); err != nil {
		t.Fatalf("rate item: %v", err)
	}

	detail, err := svc.GetItemDetail(ctx, alice, mug.ID)
	if err != nil {
		t.Fatalf("get item detail: %v", err)
	}
	if detail.Item.Name != "Mug" {
		t.Fatalf("item = %+v", detail.Item)
	}
	if !detail.Rated || detail.RateScore != 5 {
		t.Fatalf("rate = (%v, %d), want latest score 5", detail.Rated, detail.RateScore)
	}
	if len(detail.Comments) != 1 || detail.Comments[0].Author != alice.Email {
		t.Fatalf("comments = %+v", detail.Comments)
	}
	if len(detail.Suggestions) != 3 {
		t.Fatalf("suggestions = %d, want 3", len(detail.Suggestions))
	}
	// Independent draws: duplicates and the item itself are allowed.
	if detail.Suggestions[1].ID != detail.Suggestions[2].ID {
		t.Fatalf("expected duplicate suggestion slots, got %+v", detail.Suggestions)
	}
	if detail.Suggestions[1].ID != mug.ID {
		t.Fatalf("expected self-suggestion, got %+v", detail.Suggestions[1])
	}
}

func TestGetItemDetailUnratedHasNoScore(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	svc := NewService(store)

	detail, err := svc.GetItemDetail(context.Background(), alice, mug.ID)
	if err != nil {
		t.Fatalf("get item detail: %v", err)
	}
	if detail.Rated {
		t.Fatalf("expected unrated item, got score %d", detail.RateScore)
	}
}

func TestGetItemDetailSingleItemCatalogSelfSuggests(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	svc := NewService(store, WithPicker(func(n int) int { return 0 }))

	detail, err := svc.GetItemDetail(context.Background(), alice, mug.ID)
	if err != nil {
		t.Fatalf("get item detail: %v", err)
	}
	if len(detail.Suggestions) != 3 {
		t.Fatalf("suggestions = %d", len(detail.Suggestions))
	}
	for _, suggestion := range detail.Suggestions {
		if suggestion.ID != mug.ID {
			t.Fatalf("suggestion = %+v, want the only catalog item", suggestion)
		}
	}
}

func TestCatalogByCategory(t *testing.T) {
	store := newFakeStore()
	store.addItem(storage.Item{Name: "Mug", Category: "kitchen", Price: 700})
	store.addItem(storage.Item{Name: "Lamp", Category: "home", Price: 2500})
	store.addItem(storage.Item{Name: "Pan", Category: "kitchen", Price: 1800})
	svc := NewService(store)

	items, err := svc.CatalogByCategory(context.Background(), "kitchen")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
}

func TestGetCartView(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	lamp := store.addItem(storage.Item{Name: "Lamp", Price: 2500})
	svc := NewService(store)
	ctx := context.Background()

	for _, itemID := range []int64{mug.ID, lamp.ID} {
		if err := svc.AddToCart(ctx, alice, itemID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}

	view, err := svc.GetCartView(ctx, alice)
	if err != nil {
		t.Fatalf("cart view: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("items = %d", len(view.Items))
	}
	if view.Sum != 3200 {
		t.Fatalf("sum = %d", view.Sum)
	}
}

func TestRemoveFromCartMissingRowIsNoop(t *testing.T) {
	svc := NewService(newFakeStore())

	if err := svc.RemoveFromCart(context.Background(), alice, 42); err != nil {
		t.Fatalf("remove from cart: %v", err)
	}
}

func TestDeleteCommentMissingIsNoop(t *testing.T) {
	svc := NewService(newFakeStore())

	if err := svc.DeleteComment(context.Background(), alice, 42); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
}

func TestDeleteCommentAnyUserMayDelete(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.AddComment(ctx, admin, mug.ID, "from admin"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	comments, err := store.ListCommentsByItem(ctx, mug.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}

	// Non-author deletion succeeds: the ownership check is knowingly absent.
	if err := svc.DeleteComment(ctx, alice, comments[0].ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	comments, err = store.ListCommentsByItem(ctx, mug.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments = %d, want 0", len(comments))
	}
}

func TestCategoryTagsSortedDistinct(t *testing.T) {
	store := newFakeStore()
	store.addItem(storage.Item{Name: "Coffee Mug", Category: "kitchen", Price: 700})
	store.addItem(storage.Item{Name: "Desk Lamp", Category: "home", Price: 2500})
	store.addItem(storage.Item{Name: "Chef Knife", Category: "kitchen", Price: 2200})
	svc := NewService(store)

	tags, err := svc.CategoryTags(context.Background())
	if err != nil {
		t.Fatalf("category tags: %v", err)
	}

	want := []string{"home", "kitchen"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range tags {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}
}

func TestCategoryTagsEmptyCatalog(t *testing.T) {
	svc := NewService(newFakeStore())

	tags, err := svc.CategoryTags(context.Background())
	if err != nil {
		t.Fatalf("category tags: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("tags = %v, want none", tags)
	}
}

func TestSearchItems(t *testing.T) {
	store := newFakeStore()
	store.addItem(storage.Item{Name: "Coffee Mug", Category: "kitchen", Price: 700})
	store.addItem(storage.Item{Name: "Desk Lamp", Category: "home", Price: 2500})
	store.addItem(storage.Item{Name: "Travel Mug", Category: "travel", Price: 1500})
	store.addItem(storage.Item{Name: "MUG RACK", Category: "kitchen", Price: 3000})
	svc := NewService(store)
	ctx := context.Background()

	tests := []struct {
		name       string
		title      string
		maxPrice   int64
		categories []string
		want       []string
	}{
		{
			name:       "all three predicates",
			title:      "mug",
			maxPrice:   2000,
			categories: []string{"kitchen", "travel"},
			want:       []string{"Coffee Mug", "Travel Mug"},
		},
		{
			name:       "case-insensitive substring",
			title:      "MUG",
			maxPrice:   3000,
			categories: []string{"kitchen"},
			want:       []string{"Coffee Mug", "MUG RACK"},
		},
		{
			name:       "price bound is inclusive",
			title:      "",
			maxPrice:   2500,
			categories: []string{"home"},
			want:       []string{"Desk Lamp"},
		},
		{
			name:       "empty category set matches nothing",
			title:      "mug",
			maxPrice:   10000,
			categories: nil,
			want:       nil,
		},
		{
			name:       "category excludes non-members",
			title:      "mug",
			maxPrice:   10000,
			categories: []string{"home"},
			want:       nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.SearchItems(ctx, tc.title, tc.maxPrice, tc.categories)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			var names []string
			for _, item := range items {
				names = append(names, item.Name)
			}
			if len(names) != len(tc.want) {
				t.Fatalf("names = %v, want %v", names, tc.want)
			}
			for i := range names {
				if names[i] != tc.want[i] {
					t.Fatalf("names = %v, want %v", names, tc.want)
				}
			}
		})
	}
}

func TestPlaceOrderClearsCartAndPublishes(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	lamp := store.addItem(storage.Item{Name: "Lamp", Price: 2500})
	publisher := &fakePublisher{}
	placedAt := date("2024-03-01")
	svc := NewService(store,
		WithPublisher(publisher),
		WithClock(func() time.Time { return placedAt }))
	ctx := context.Background()

	for _, itemID := range []int64{mug.ID, lamp.ID} {
		if err := svc.AddToCart(ctx, alice, itemID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}

	order, err := svc.PlaceOrder(ctx, alice)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Status != storage.OrderStatusActive {
		t.Fatalf("status = %q", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items = %d", len(order.Items))
	}
	if !order.CreatedAt.Equal(placedAt) {
		t.Fatalf("created at = %v", order.CreatedAt)
	}

	total, err := svc.CartTotal(ctx, alice)
	if err != nil {
		t.Fatalf("cart total: %v", err)
	}
	if total != 0 {
		t.Fatalf("cart total after order = %d", total)
	}

	if len(publisher.published) != 1 || publisher.published[0].ID != order.ID {
		t.Fatalf("published = %+v", publisher.published)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc := NewService(newFakeStore(), WithPublisher(&fakePublisher{}))

	_, err := svc.PlaceOrder(context.Background(), alice)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	publisher := &fakePublisher{fail: errBrokerDown}
	svc := NewService(store, WithPublisher(publisher))
	ctx := context.Background()

	if err := svc.AddToCart(ctx, alice, mug.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	order, err := svc.PlaceOrder(ctx, alice)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("expected a placed order despite broker failure")
	}
}

func TestPlaceOrderStorageFailureLeavesNoOrder(t *testing.T) {
	store := newFakeStore()
	mug := store.addItem(storage.Item{Name: "Mug", Price: 700})
	store.failPlacement = errors.New("disk full")
	publisher := &fakePublisher{}
	svc := NewService(store, WithPublisher(publisher))
	ctx := context.Background()

	if err := svc.AddToCart(ctx, alice, mug.ID); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if _, err := svc.PlaceOrder(ctx, alice); err == nil {
		t.Fatal("expected error")
	}
	if len(publisher.published) != 0 {
		t.Fatalf("published = %d, want 0", len(publisher.published))
	}
	orders, err := svc.ListOrders(ctx, alice)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("orders = %d, want 0", len(orders))
	}
}

func TestGetHomeListingWorkedExample(t *testing.T) {
	store := newFakeStore()
	store.addItem(storage.Item{Name: "A", Price: 1000, CreatedAt: date("2020-01-01")})
	store.addItem(storage.Item{Name: "B", Price: 500, CreatedAt: date("2020-06-01")})
	svc := NewService(store)

	listing, err := svc.GetHomeListing(context.Background())
	if err != nil {
		t.Fatalf("home listing: %v", err)
	}

	if len(listing.TopItems) != 2 || listing.TopItems[0].Name != "B" || listing.TopItems[1].Name != "A" {
		t.Fatalf("top items = %+v", listing.TopItems)
	}
	if len(listing.NewItems) != 2 || listing.NewItems[0].Name != "B" || listing.NewItems[1].Name != "A" {
		t.Fatalf("new items = %+v", listing.NewItems)
	}
}

func TestGetHomeListingCaps(t *testing.T) {
	store := newFakeStore()
	base := date("2020-01-01")
	for i := range 20 {
		store.addItem(storage.Item{
			Name:      "item",
			Price:     int64(100 * (i + 1)),
			CreatedAt: base.AddDate(0, 0, i),
		})
	}
	svc := NewService(store)

	listing, err := svc.GetHomeListing(context.Background())
	if err != nil {
		t.Fatalf("home listing: %v", err)
	}
	if len(listing.NewItems) != 11 {
		t.Fatalf("new items = %d, want 11", len(listing.NewItems))
	}
	if len(listing.TopItems) != 3 {
		t.Fatalf("top items = %d, want 3", len(listing.TopItems))
	}

	// Newest first.
	for i := 1; i < len(listing.NewItems); i++ {
		if listing.NewItems[i].CreatedAt.After(listing.NewItems[i-1].CreatedAt) {
			t.Fatalf("new items not sorted desc at %d", i)
		}
	}
	// Cheapest first.
	for i := 1; i < len(listing.TopItems); i++ {
		if listing.TopItems[i].Price < listing.TopItems[i-1].Price {
			t.Fatalf("top items not sorted asc at %d", i)
		}
	}
}

func TestGetHomeListingTiesKeepNativeOrder(t *testing.T) {
	store := newFakeStore()
	created := date("2021-05-01")
	first := store.addItem(storage.Item{Name: "first", Price: 300, CreatedAt: created})
	second := store.addItem(storage.Item{Name: "second", Price: 300, CreatedAt: created})
	svc := NewService(store)

	listing, err := svc.GetHomeListing(context.Background())
	if err != nil {
		t.Fatalf("home listing: %v", err)
	}
	if listing.TopItems[0].ID != first.ID || listing.TopItems[1].ID != second.ID {
		t.Fatalf("tie order broken: %+v", listing.TopItems)
	}
	if listing.NewItems[0].ID != first.ID || listing.NewItems[1].ID != second.ID {
		t.Fatalf("tie order broken: %+v", listing.NewItems)
	}
}
