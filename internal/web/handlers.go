package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storefront"
	"github.com/karinashop/storefront/internal/web/routepath"
	"github.com/karinashop/storefront/internal/web/sessioncookie"
	"github.com/karinashop/storefront/internal/web/templates"
)

type handler struct {
	storefront StorefrontService
	identity   IdentityService
	logger     *slog.Logger
}

// principal resolves the session cookie into a request principal.
func (h *handler) principal(r *http.Request) (storefront.Principal, bool) {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return storefront.Principal{}, false
	}
	principal, err := h.identity.ResolvePrincipal(r.Context(), token)
	if err != nil {
		return storefront.Principal{}, false
	}
	return principal, true
}

// requirePrincipal wraps a handler that needs an authenticated viewer.
// Anonymous requests are redirected to the login form.
func (h *handler) requirePrincipal(next func(http.ResponseWriter, *http.Request, storefront.Principal)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := h.principal(r)
		if !ok {
			http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
			return
		}
		next(w, r, principal)
	}
}

// pageContext assembles the shared chrome for an authenticated page. A cart
// total failure degrades to zero rather than failing the page.
func (h *handler) pageContext(r *http.Request, principal storefront.Principal) templates.PageContext {
	sum, err := h.storefront.CartTotal(r.Context(), principal)
	if err != nil {
		h.logger.WarnContext(r.Context(), "compute cart total",
			slog.Int64("user_id", principal.UserID),
			slog.String("error", err.Error()))
		sum = 0
	}
	return templates.PageContext{
		UserName: principal.Name(),
		CartSum:  sum,
		IsAdmin:  principal.IsAdmin(),
	}
}

// render buffers the component so a failed render can still produce a clean
// error response.
func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		h.logger.ErrorContext(r.Context(), "render page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.DebugContext(r.Context(), "write response", slog.String("error", err.Error()))
	}
}

func (h *handler) renderError(w http.ResponseWriter, r *http.Request, status int) {
	h.render(w, r, status, templates.ErrorPage(status))
}

// serviceError maps a storefront failure onto an error page.
func (h *handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "handle request",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	h.renderError(w, r, http.StatusInternalServerError)
}

// pathID parses a numeric path segment.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *handler) home(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	listing, err := h.storefront.GetHomeListing(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.HomePage(h.pageContext(r, principal), listing))
}

func (h *handler) about(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	h.render(w, r, http.StatusOK, templates.AboutPage(h.pageContext(r, principal)))
}

func (h *handler) itemDetail(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	detail, err := h.storefront.GetItemDetail(r.Context(), principal, itemID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.ItemPage(h.pageContext(r, principal), detail))
}

func (h *handler) category(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	category := r.PathValue("category")
	items, err := h.storefront.CatalogByCategory(r.Context(), category)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.CategoryPage(h.pageContext(r, principal), category, items))
}

func (h *handler) cart(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	view, err := h.storefront.GetCartView(r.Context(), principal)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.CartPage(h.pageContext(r, principal), view))
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	orders, err := h.storefront.ListOrders(r.Context(), principal)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.ProfilePage(h.pageContext(r, principal), orders))
}

func (h *handler) searchForm(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	tags, err := h.storefront.CategoryTags(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.SearchPage(h.pageContext(r, principal), tags, templates.SearchQuery{}, nil, false))
}

func (h *handler) forbidden(w http.ResponseWriter, r *http.Request) {
	pc := templates.PageContext{}
	if principal, ok := h.principal(r); ok {
		pc = h.pageContext(r, principal)
	}
	h.render(w, r, http.StatusForbidden, templates.ForbiddenPage(pc))
}

func (h *handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.principal(r); ok {
		http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, templates.LoginPage(""))
}

func (h *handler) registrationForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.principal(r); ok {
		http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, templates.RegistrationPage(""))
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound)
}
