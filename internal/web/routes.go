package web

import (
	"net/http"

	"github.com/karinashop/storefront/internal/web/routepath"
)

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(http.MethodGet+" /{$}", h.requirePrincipal(h.home))
	mux.HandleFunc(http.MethodGet+" "+routepath.About, h.requirePrincipal(h.about))
	mux.HandleFunc(http.MethodGet+" "+routepath.ItemPattern, h.requirePrincipal(h.itemDetail))
	mux.HandleFunc(http.MethodGet+" "+routepath.CategoryPattern, h.requirePrincipal(h.category))
	mux.HandleFunc(http.MethodGet+" "+routepath.UserCart, h.requirePrincipal(h.cart))
	mux.HandleFunc(http.MethodGet+" "+routepath.UserProfile, h.requirePrincipal(h.profile))
	mux.HandleFunc(http.MethodGet+" "+routepath.Search, h.requirePrincipal(h.searchForm))
	mux.HandleFunc(http.MethodGet+" "+routepath.Forbidden, h.forbidden)

	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.loginForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.login)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.logout)
	mux.HandleFunc(http.MethodGet+" "+routepath.Registration, h.registrationForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Registration, h.register)

	mux.HandleFunc(http.MethodPost+" "+routepath.Search, h.requirePrincipal(h.search))
	mux.HandleFunc(http.MethodPost+" "+routepath.Order, h.requirePrincipal(h.placeOrder))
	mux.HandleFunc(http.MethodPost+" "+routepath.AddToCartPattern, h.requirePrincipal(h.addToCart))
	mux.HandleFunc(http.MethodPost+" "+routepath.RemoveFromCartPattern, h.requirePrincipal(h.removeFromCart))
	mux.HandleFunc(http.MethodPost+" "+routepath.AddCommentPattern, h.requirePrincipal(h.addComment))
	mux.HandleFunc(http.MethodPost+" "+routepath.DeleteCommentPattern, h.requirePrincipal(h.deleteComment))
	mux.HandleFunc(http.MethodPost+" "+routepath.RatePattern, h.requirePrincipal(h.rate))

	mux.HandleFunc("/", h.notFound)

	return mux
}
