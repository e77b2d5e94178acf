package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/karinashop/storefront/internal/auth"
	"github.com/karinashop/storefront/internal/storefront"
	"github.com/karinashop/storefront/internal/web/routepath"
	"github.com/karinashop/storefront/internal/web/sessioncookie"
	"github.com/karinashop/storefront/internal/web/templates"
)

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, templates.LoginPage("invalid form submission"))
		return
	}
	token, err := h.identity.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.render(w, r, http.StatusOK, templates.LoginPage("invalid email or password"))
			return
		}
		h.serviceError(w, r, err)
		return
	}
	sessioncookie.Write(w, r, token)
	http.Redirect(w, r, routepath.Root, http.StatusSeeOther)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r)
	http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, templates.RegistrationPage("invalid form submission"))
		return
	}
	_, err := h.identity.Register(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("passwordConfirm"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			h.render(w, r, http.StatusOK, templates.RegistrationPage(err.Error()))
		case errors.Is(err, auth.ErrEmailTaken):
			h.render(w, r, http.StatusOK, templates.RegistrationPage("email already registered"))
		default:
			h.serviceError(w, r, err)
		}
		return
	}
	http.Redirect(w, r, routepath.Login, http.StatusSeeOther)
}

func (h *handler) addToCart(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := h.storefront.AddToCart(r.Context(), principal, itemID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.Item(itemID), http.StatusSeeOther)
}

func (h *handler) removeFromCart(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := h.storefront.RemoveFromCart(r.Context(), principal, itemID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.UserCart, http.StatusSeeOther)
}

func (h *handler) addComment(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	body := strings.TrimSpace(r.PostFormValue("commentText"))
	if body != "" {
		if err := h.storefront.AddComment(r.Context(), principal, itemID, body); err != nil {
			h.serviceError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, routepath.Item(itemID), http.StatusSeeOther)
}

func (h *handler) deleteComment(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "itemId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	commentID, ok := pathID(r, "commentId")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := h.storefront.DeleteComment(r.Context(), principal, commentID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.Item(itemID), http.StatusSeeOther)
}

func (h *handler) rate(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	itemID, ok := pathID(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	score, err := strconv.Atoi(r.PostFormValue("amount"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	if err := h.storefront.RateItem(r.Context(), principal, itemID, score); err != nil {
		h.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.Item(itemID), http.StatusSeeOther)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	query := templates.SearchQuery{
		Title:      r.PostFormValue("title"),
		Categories: r.PostForm["categories"],
	}
	if raw := r.PostFormValue("price"); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.renderError(w, r, http.StatusBadRequest)
			return
		}
		query.MaxPrice = price
	}
	tags, err := h.storefront.CategoryTags(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	results, err := h.storefront.SearchItems(r.Context(), query.Title, query.MaxPrice, query.Categories)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, templates.SearchPage(h.pageContext(r, principal), tags, query, results, true))
}

func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request, principal storefront.Principal) {
	if _, err := h.storefront.PlaceOrder(r.Context(), principal); err != nil {
		if errors.Is(err, storefront.ErrEmptyCart) {
			http.Redirect(w, r, routepath.UserCart, http.StatusSeeOther)
			return
		}
		h.serviceError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.UserCart, http.StatusSeeOther)
}
