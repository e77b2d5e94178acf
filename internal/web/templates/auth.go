package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/karinashop/storefront/internal/web/routepath"
)

// LoginPage renders the login form. A non-empty errMsg is shown above it.
func LoginPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Log in</h1>`); err != nil {
			return err
		}
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>`, esc(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="%s"><input type="email" name="email"><input type="password" name="password"><button type="submit">Log in</button></form><p><a href="%s">Create an account</a></p>`,
			routepath.Login,
			routepath.Registration)
		return err
	})
	return page("Log in", PageContext{}, body)
}

// RegistrationPage renders the sign-up form. A non-empty errMsg is shown
// above it.
func RegistrationPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Create an account</h1>`); err != nil {
			return err
		}
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>`, esc(errMsg)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<form method="post" action="%s"><input type="email" name="email"><input type="password" name="password"><input type="password" name="passwordConfirm"><button type="submit">Register</button></form><p><a href="%s">Log in instead</a></p>`,
			routepath.Registration,
			routepath.Login)
		return err
	})
	return page("Register", PageContext{}, body)
}
