package templates

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/a-h/templ"

	"github.com/karinashop/storefront/internal/storage"
	"github.com/karinashop/storefront/internal/storefront"
	"github.com/karinashop/storefront/internal/web/routepath"
)

// HomePage renders the landing page strips.
func HomePage(pc PageContext, listing storefront.HomeListing) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="new-items"><h2>New arrivals</h2>`); err != nil {
			return err
		}
		for _, item := range listing.NewItems {
			if err := itemCard(item.ID, item.Name, item.Category, item.Price).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</section><section class="top-items"><h2>Best prices</h2>`); err != nil {
			return err
		}
		for _, item := range listing.TopItems {
			if err := itemCard(item.ID, item.Name, item.Category, item.Price).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
	return page("Storefront", pc, body)
}

// AboutPage renders the static about text inside the shared chrome.
func AboutPage(pc PageContext) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h1>About</h1><p>A small storefront for everyday things.</p>`)
		return err
	})
	return page("About", pc, body)
}

// ItemPage renders one item with its rating, comments and suggestions.
func ItemPage(pc PageContext, detail storefront.ItemDetail) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		item := detail.Item
		if _, err := fmt.Fprintf(w,
			`<h1>%s</h1><p class="category"><a href="%s">%s</a></p><p class="price">%s</p><p class="description">%s</p>`,
			esc(item.Name),
			routepath.Category(item.Category),
			esc(item.Category),
			formatPrice(item.Price),
			esc(item.Description)); err != nil {
			return err
		}

		if detail.Rated {
			if _, err := fmt.Fprintf(w, `<p class="rate">Your rating: %d</p>`, detail.RateScore); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s/rate"><input type="number" name="amount" min="1" max="5"><button type="submit">Rate</button></form>`,
			routepath.Item(item.ID)); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s/addToCart"><button type="submit">Add to cart</button></form>`,
			routepath.Item(item.ID)); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<section class="comments"><h2>Comments (%d)</h2>`, len(detail.Comments)); err != nil {
			return err
		}
		for _, comment := range detail.Comments {
			if _, err := fmt.Fprintf(w,
				`<article class="comment"><span class="author">%s</span> <time>%s</time><p>%s</p>`,
				esc(comment.Author),
				formatDate(comment.CreatedAt),
				esc(comment.Body)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w,
				`<form method="post" action="%s"><button type="submit">Delete</button></form></article>`,
				routepath.DeleteComment(item.ID, comment.ID)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s/addComment"><textarea name="commentText"></textarea><button type="submit">Comment</button></form></section>`,
			routepath.Item(item.ID)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section class="suggestions"><h2>You may also like</h2>`); err != nil {
			return err
		}
		for _, suggestion := range detail.Suggestions {
			if err := itemCard(suggestion.ID, suggestion.Name, suggestion.Category, suggestion.Price).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
	return page(detail.Item.Name, pc, body)
}

// CategoryPage renders a category listing.
func CategoryPage(pc PageContext, category string, items []storage.Item) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, esc(category)); err != nil {
			return err
		}
		if len(items) == 0 {
			_, err := io.WriteString(w, `<p>No items in this category.</p>`)
			return err
		}
		for _, item := range items {
			if err := itemCard(item.ID, item.Name, item.Category, item.Price).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return page(category, pc, body)
}

// CartPage renders the cart rows and their sum.
func CartPage(pc PageContext, view storefront.CartView) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Cart</h1>`); err != nil {
			return err
		}
		if len(view.Items) == 0 {
			_, err := io.WriteString(w, `<p>Your cart is empty.</p>`)
			return err
		}
		for _, item := range view.Items {
			if _, err := fmt.Fprintf(w,
				`<article class="cart-row"><a href="%s">%s</a> <span class="price">%s</span><form method="post" action="%s/deleteFromCart"><button type="submit">Remove</button></form></article>`,
				routepath.Item(item.ID),
				esc(item.Name),
				formatPrice(item.Price),
				routepath.Item(item.ID)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<p class="sum">Total: %s</p><form method="post" action="%s"><button type="submit">Place order</button></form>`,
			formatPrice(view.Sum),
			routepath.Order)
		return err
	})
	return page("Cart", pc, body)
}

// ProfilePage renders the viewer's order history.
func ProfilePage(pc PageContext, orders []storage.Order) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1><h2>Orders</h2>`, esc(pc.UserName)); err != nil {
			return err
		}
		if len(orders) == 0 {
			_, err := io.WriteString(w, `<p>No orders yet.</p>`)
			return err
		}
		for _, order := range orders {
			var total int64
			for _, line := range order.Items {
				total += line.Price
			}
			if _, err := fmt.Fprintf(w,
				`<article class="order"><h3>Order %d</h3><span class="status">%s</span> <time>%s</time><ul>`,
				order.ID,
				esc(order.Status),
				formatDate(order.CreatedAt)); err != nil {
				return err
			}
			for _, line := range order.Items {
				if _, err := fmt.Fprintf(w, `<li>%s <span class="price">%s</span></li>`, esc(line.Name), formatPrice(line.Price)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `</ul><p class="sum">Total: %s</p></article>`, formatPrice(total)); err != nil {
				return err
			}
		}
		return nil
	})
	return page("Profile", pc, body)
}

// SearchQuery echoes the submitted search form back into the page.
type SearchQuery struct {
	Title      string
	MaxPrice   int64
	Categories []string
}

// SearchPage renders the search form and, after a submission, its results.
// categories is the set of known catalog tags; one checkbox renders per tag,
// pre-checked when the tag was part of the submitted query.
func SearchPage(pc PageContext, categories []string, query SearchQuery, results []storage.Item, searched bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<h1>Search</h1><form method="post" action="%s"><input type="text" name="title" value="%s"><input type="number" name="price" value="%d">`,
			routepath.Search,
			esc(query.Title),
			query.MaxPrice); err != nil {
			return err
		}
		for _, category := range categories {
			checked := ""
			if slices.Contains(query.Categories, category) {
				checked = " checked"
			}
			if _, err := fmt.Fprintf(w,
				`<label><input type="checkbox" name="categories" value="%s"%s>%s</label>`,
				esc(category), checked, esc(category)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<button type="submit">Search</button></form>`); err != nil {
			return err
		}

		if !searched {
			return nil
		}
		if len(results) == 0 {
			_, err := io.WriteString(w, `<p>No items found.</p>`)
			return err
		}
		for _, item := range results {
			if err := itemCard(item.ID, item.Name, item.Category, item.Price).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	return page("Search", pc, body)
}
