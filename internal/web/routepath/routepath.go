// Package routepath stores canonical HTTP paths for the storefront.
package routepath

import (
	"net/url"
	"strconv"
)

const (
	Root         = "/"
	About        = "/about"
	Login        = "/login"
	Logout       = "/logout"
	Registration = "/registration"
	Forbidden    = "/403"
	Search       = "/search"
	Order        = "/order"
	UserCart     = "/user/cart"
	UserProfile  = "/user/profile"

	ItemPattern           = "/item/{id}"
	CategoryPattern       = "/catalog/{category}"
	AddToCartPattern      = "/item/{id}/addToCart"
	RemoveFromCartPattern = "/item/{id}/deleteFromCart"
	AddCommentPattern     = "/item/{id}/addComment"
	DeleteCommentPattern  = "/item/{itemId}/comment/{commentId}"
	RatePattern           = "/item/{id}/rate"
)

// Item returns the canonical path for one item page.
func Item(id int64) string {
	return "/item/" + strconv.FormatInt(id, 10)
}

// Category returns the canonical path for one category page.
func Category(category string) string {
	return "/catalog/" + url.PathEscape(category)
}

// DeleteComment returns the canonical path for one comment deletion.
func DeleteComment(itemID, commentID int64) string {
	return "/item/" + strconv.FormatInt(itemID, 10) + "/comment/" + strconv.FormatInt(commentID, 10)
}
