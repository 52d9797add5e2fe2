package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/techalpha/blog/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}
	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestAllPagesParse(t *testing.T) {
	r := newTestRenderer(t)

	expected := []string{
		"home", "about", "weather", "contact", "post", "error",
		"thank-you", "signup-thankyou", "subscribe-thankyou",
		"admin/login", "admin/signup", "admin/dashboard",
		"admin/categories", "admin/posts", "admin/edit-post",
		"admin/recent-posts", "admin/post-details", "admin/compose",
	}
	for _, name := range expected {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestHTMLRendersPage(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	rec := httptest.NewRecorder()
	r.HTML(rec, req, http.StatusOK, "contact", map[string]any{"Title": "Contact"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Contact") {
		t.Error("page title missing")
	}
	if !strings.Contains(body, `action="/contact"`) {
		t.Error("contact form missing")
	}
}

func TestHTMLUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.HTML(rec, req, http.StatusOK, "no-such-page", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}

func TestStatusCodePropagates(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	rec := httptest.NewRecorder()
	r.HTML(rec, req, http.StatusInternalServerError, "error", map[string]any{"Message": "lookup failed"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lookup failed") {
		t.Error("error message missing from rendered page")
	}
}
