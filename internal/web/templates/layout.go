// Package templates renders storefront pages as templ components.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/karinashop/storefront/internal/web/routepath"
)

// PageContext provides shared layout context for pages. Every authenticated
// page carries the viewer's cart sum and admin flag.
type PageContext struct {
	UserName string
	CartSum  int64
	IsAdmin  bool
}

func esc(value string) string {
	return html.EscapeString(value)
}

func formatPrice(price int64) string {
	return strconv.FormatInt(price, 10)
}

func formatDate(value time.Time) string {
	return value.Format("2006-01-02 15:04")
}

// page wraps a body component in the shared storefront chrome.
func page(title string, pc PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title></head><body>`,
			esc(title)); err != nil {
			return err
		}
		if err := header(pc).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func header(pc PageContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<header><nav><a href="%s">Home</a> <a href="%s">About</a> <a href="%s">Search</a> <a href="%s">Cart (%s)</a> <a href="%s">Profile</a></nav>`,
			routepath.Root,
			routepath.About,
			routepath.Search,
			routepath.UserCart,
			formatPrice(pc.CartSum),
			routepath.UserProfile); err != nil {
			return err
		}
		if pc.UserName != "" {
			if _, err := fmt.Fprintf(w, `<span class="viewer">%s</span>`, esc(pc.UserName)); err != nil {
				return err
			}
		}
		if pc.IsAdmin {
			if _, err := io.WriteString(w, `<span class="admin-badge">admin</span>`); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s"><button type="submit">Log out</button></form></header>`,
			routepath.Logout); err != nil {
			return err
		}
		return nil
	})
}

// itemCard renders one catalog entry as a linked card.
func itemCard(itemID int64, name, category string, price int64) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<article class="item"><a href="%s">%s</a> <a href="%s">%s</a> <span class="price">%s</span></article>`,
			routepath.Item(itemID),
			esc(name),
			routepath.Category(category),
			esc(category),
			formatPrice(price))
		return err
	})
}
