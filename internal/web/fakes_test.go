package web

import (
	"context"
	"errors"

	"github.com/karinashop/storefront/internal/auth"
	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storefront"
)

// fakeStorefront returns scripted values and records mutating calls.
type fakeStorefront struct {
	cartTotal int64
	listing   storefront.HomeListing
	detail    storefront.ItemDetail
	detailErr error
	items     []storage.Item
	cartView  storefront.CartView
	orders    []storage.Order
	tags      []string
	results   []storage.Item
	order     storage.Order
	orderErr  error

	addedToCart     []int64
	removedFromCart []int64
	comments        []string
	deletedComments []int64
	rated           map[int64]int
	ordersPlaced    int

	searchTitle      string
	searchMaxPrice   int64
	searchCategories []string
}

func (f *fakeStorefront) CartTotal(context.Context, storefront.Principal) (int64, error) {
	return f.cartTotal, nil
}

func (f *fakeStorefront) GetHomeListing(context.Context) (storefront.HomeListing, error) {
	return f.listing, nil
}

func (f *fakeStorefront) GetItemDetail(_ context.Context, _ storefront.Principal, itemID int64) (storefront.ItemDetail, error) {
	if f.detailErr != nil {
		return storefront.ItemDetail{}, f.detailErr
	}
	if f.detail.Item.ID != itemID {
		return storefront.ItemDetail{}, storage.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeStorefront) CatalogByCategory(context.Context, string) ([]storage.Item, error) {
	return f.items, nil
}

func (f *fakeStorefront) GetCartView(context.Context, storefront.Principal) (storefront.CartView, error) {
	return f.cartView, nil
}

func (f *fakeStorefront) ListOrders(context.Context, storefront.Principal) ([]storage.Order, error) {
	return f.orders, nil
}

func (f *fakeStorefront) CategoryTags(context.Context) ([]string, error) {
	return f.tags, nil
}

func (f *fakeStorefront) SearchItems(_ context.Context, title string, maxPrice int64, categories []string) ([]storage.Item, error) {
	f.searchTitle = title
	f.searchMaxPrice = maxPrice
	f.searchCategories = categories
	return f.results, nil
}

func (f *fakeStorefront) AddToCart(_ context.Context, _ storefront.Principal, itemID int64) error {
	f.addedToCart = append(f.addedToCart, itemID)
	return nil
}

func (f *fakeStorefront) RemoveFromCart(_ context.Context, _ storefront.Principal, itemID int64) error {
	f.removedFromCart = append(f.removedFromCart, itemID)
	return nil
}

func (f *fakeStorefront) AddComment(_ context.Context, _ storefront.Principal, _ int64, body string) error {
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeStorefront) DeleteComment(_ context.Context, _ storefront.Principal, commentID int64) error {
	f.deletedComments = append(f.deletedComments, commentID)
	return nil
}

func (f *fakeStorefront) RateItem(_ context.Context, _ storefront.Principal, itemID int64, score int) error {
	if f.rated == nil {
		f.rated = map[int64]int{}
	}
	f.rated[itemID] = score
	return nil
}

func (f *fakeStorefront) PlaceOrder(context.Context, storefront.Principal) (storage.Order, error) {
	if f.orderErr != nil {
		return storage.Order{}, f.orderErr
	}
	f.ordersPlaced++
	return f.order, nil
}

// fakeIdentity accepts one fixed credential pair and one fixed token.
type fakeIdentity struct {
	email     string
	password  string
	token     string
	principal storefront.Principal

	registered  [][3]string
	registerErr error
}

func (f *fakeIdentity) Register(_ context.Context, email, password, passwordConfirm string) (int64, error) {
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	if password != passwordConfirm {
		return 0, auth.ErrValidation
	}
	f.registered = append(f.registered, [3]string{email, password, passwordConfirm})
	return 1, nil
}

func (f *fakeIdentity) Login(_ context.Context, email, password string) (string, error) {
	if email != f.email || password != f.password {
		return "", auth.ErrInvalidCredentials
	}
	return f.token, nil
}

func (f *fakeIdentity) ResolvePrincipal(_ context.Context, token string) (storefront.Principal, error) {
	if token != f.token {
		return storefront.Principal{}, errors.New("unknown token")
	}
	return f.principal, nil
}
