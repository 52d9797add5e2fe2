package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/techalpha/blog/internal/render"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/testutil"
	"github.com/techalpha/blog/web"
)

// testDB creates a migrated temporary database for handler tests.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

// testSessionManager creates an in-memory session manager.
func testSessionManager() *scs.SessionManager {
	return scs.New()
}

// testRenderer builds a renderer over the embedded site templates. No
// session manager is attached: flash messages become no-ops, so handlers
// can run without the session middleware.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}
	return renderer
}

// sentMail records one delivery made through the stub sender.
type sentMail struct {
	To      string
	Subject string
	Body    string
	Name    string
}

// stubSender is a mailer.Sender that records sends instead of delivering.
type stubSender struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (s *stubSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *stubSender) SendSubscribeThankYou(ctx context.Context, to, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentMail{To: to, Name: name})
	return nil
}

func (s *stubSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *stubSender) lastSent() sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

// seedPost inserts a post directly through the store.
func seedPost(t *testing.T, db *sql.DB, title, link, category string) int64 {
	t.Helper()
	post, err := store.New(db).CreatePost(context.Background(), store.CreatePostParams{
		Title:     title,
		Body:      "<p>" + title + "</p>",
		Link:      link,
		Category:  category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post.ID
}
