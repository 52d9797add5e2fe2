package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/techalpha/blog/internal/store"
)

func postForm(handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSubscribeMissingFields(t *testing.T) {
	db := testDB(t)
	sender := &stubSender{}
	h := NewSubscribeHandler(db, sender)

	cases := []url.Values{
		{},
		{"email": {"bob@example.com"}},
		{"name": {"Bob"}},
		{"email": {"  "}, "name": {"Bob"}},
	}
	for _, form := range cases {
		rec := postForm(h.Subscribe, "/subscribe", form)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("form %v: status = %d; want 400", form, rec.Code)
		}
	}

	if sender.sentCount() != 0 {
		t.Errorf("emails sent for invalid forms: %d", sender.sentCount())
	}
}

func TestSubscribeSuccess(t *testing.T) {
	db := testDB(t)
	sender := &stubSender{}
	h := NewSubscribeHandler(db, sender)

	rec := postForm(h.Subscribe, "/subscribe", url.Values{
		"name":  {"Bob"},
		"email": {"  Bob@Example.COM  "},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d; want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != RouteSubscribeThankYou {
		t.Errorf("Location = %q; want %q", loc, RouteSubscribeThankYou)
	}

	// The address is normalized before storage.
	sub, err := store.New(db).GetSubscriberByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("subscriber not stored: %v", err)
	}
	if sub.Name != "Bob" {
		t.Errorf("Name = %q", sub.Name)
	}

	if sender.sentCount() != 1 {
		t.Fatalf("sent %d emails; want 1", sender.sentCount())
	}
	mail := sender.lastSent()
	if mail.To != "bob@example.com" || mail.Name != "Bob" {
		t.Errorf("thank-you sent to %q for %q", mail.To, mail.Name)
	}
}

func TestSubscribeDuplicate(t *testing.T) {
	db := testDB(t)
	sender := &stubSender{}
	h := NewSubscribeHandler(db, sender)

	form := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}}

	if rec := postForm(h.Subscribe, "/subscribe", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("first subscribe: status = %d", rec.Code)
	}

	rec := postForm(h.Subscribe, "/subscribe", form)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate subscribe: status = %d; want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already subscribed") {
		t.Errorf("duplicate response body = %q", rec.Body.String())
	}

	// Case variants of the same address are the same subscriber.
	rec = postForm(h.Subscribe, "/subscribe", url.Values{"name": {"Bob"}, "email": {"BOB@example.com"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("case-variant duplicate: status = %d; want 400", rec.Code)
	}

	count, err := store.New(db).CountSubscribers(context.Background())
	if err != nil {
		t.Fatalf("CountSubscribers: %v", err)
	}
	if count != 1 {
		t.Errorf("subscriber count = %d; want 1", count)
	}
	if sender.sentCount() != 1 {
		t.Errorf("sent %d emails; want 1", sender.sentCount())
	}
}

func TestSubscribeMailFailure(t *testing.T) {
	db := testDB(t)
	sender := &stubSender{failWith: errors.New("relay down")}
	h := NewSubscribeHandler(db, sender)

	rec := postForm(h.Subscribe, "/subscribe", url.Values{
		"name":  {"Bob"},
		"email": {"bob@example.com"},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d with failing mailer; want 500", rec.Code)
	}
}
