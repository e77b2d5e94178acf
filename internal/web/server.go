// Package web serves the storefront's HTML surface: catalog browsing,
// carts, orders, comments, ratings and account forms.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storefront"
)

const shutdownTimeout = 10 * time.Second

// StorefrontService is the slice of storefront behavior the web layer uses.
type StorefrontService interface {
	CartTotal(ctx context.Context, principal storefront.Principal) (int64, error)
	GetHomeListing(ctx context.Context) (storefront.HomeListing, error)
	GetItemDetail(ctx context.Context, principal storefront.Principal, itemID int64) (storefront.ItemDetail, error)
	CatalogByCategory(ctx context.Context, category string) ([]storage.Item, error)
	GetCartView(ctx context.Context, principal storefront.Principal) (storefront.CartView, error)
	ListOrders(ctx context.Context, principal storefront.Principal) ([]storage.Order, error)
	CategoryTags(ctx context.Context) ([]string, error)
	SearchItems(ctx context.Context, title string, maxPrice int64, categories []string) ([]storage.Item, error)
	AddToCart(ctx context.Context, principal storefront.Principal, itemID int64) error
	RemoveFromCart(ctx context.Context, principal storefront.Principal, itemID int64) error
	AddComment(ctx context.Context, principal storefront.Principal, itemID int64, body string) error
	DeleteComment(ctx context.Context, principal storefront.Principal, commentID int64) error
	RateItem(ctx context.Context, principal storefront.Principal, itemID int64, score int) error
	PlaceOrder(ctx context.Context, principal storefront.Principal) (storage.Order, error)
}

// IdentityService is the slice of identity behavior the web layer uses.
type IdentityService interface {
	Register(ctx context.Context, email, password, passwordConfirm string) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResolvePrincipal(ctx context.Context, token string) (storefront.Principal, error)
}

// Config holds the dependencies of the web server.
type Config struct {
	Addr       string
	Storefront StorefrontService
	Identity   IdentityService
	Logger     *slog.Logger
}

// Server is the storefront HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires the handlers and returns a server ready to listen on
// cfg.Addr.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if cfg.Storefront == nil {
		return nil, fmt.Errorf("storefront service is required")
	}
	if cfg.Identity == nil {
		return nil, fmt.Errorf("identity service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{
		storefront: cfg.Storefront,
		identity:   cfg.Identity,
		logger:     logger,
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h.routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Handler exposes the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully with a bounded timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	s.logger.InfoContext(ctx, "web server listening", slog.String("addr", s.httpServer.Addr))

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
