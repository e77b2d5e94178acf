package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadMissingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Read(r); ok {
		t.Fatal("expected no cookie")
	}
}

func TestReadBlankCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: Name, Value: "   "})
	if _, ok := Read(r); ok {
		t.Fatal("expected blank cookie to be ignored")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Write(w, r, "token-1")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != Name || cookie.Value != "token-1" {
		t.Fatalf("cookie = %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be http-only")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("samesite = %v", cookie.SameSite)
	}
	if cookie.Secure {
		t.Fatal("plain http request must not set Secure")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	value, ok := Read(next)
	if !ok || value != "token-1" {
		t.Fatalf("read = (%q, %v)", value, ok)
	}
}

func TestWriteSecureBehindProxy(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	Write(w, r, "token-1")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure {
		t.Fatal("expected Secure cookie behind https proxy")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Clear(w, r)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Fatalf("max age = %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Fatalf("value = %q", cookies[0].Value)
	}
}
