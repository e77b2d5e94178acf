package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/karinashop/storefront/internal/web/routepath"
)

// ErrorPage renders a bare error page for the given HTTP status.
func ErrorPage(status int) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<h1>%d %s</h1><p><a href="%s">Back to the storefront</a></p>`,
			status,
			esc(http.StatusText(status)),
			routepath.Root)
		return err
	})
	return page(http.StatusText(status), PageContext{}, body)
}

// ForbiddenPage renders the access denied page.
func ForbiddenPage(pc PageContext) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<h1>Access denied</h1><p><a href="%s">Back to the storefront</a></p>`,
			routepath.Root)
		return err
	})
	return page("Access denied", pc, body)
}
