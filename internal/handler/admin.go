// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/techalpha/blog/internal/render"
	"github.com/techalpha/blog/internal/service"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/util"
)

// AdminHandler handles the admin area routes.
type AdminHandler struct {
	db        *sql.DB
	queries   *store.Queries
	renderer  *render.Renderer
	media     *service.MediaService
	sanitizer *bluemonday.Policy
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, media *service.MediaService) *AdminHandler {
	return &AdminHandler{
		db:        db,
		queries:   store.New(db),
		renderer:  renderer,
		media:     media,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Dashboard renders the admin overview with site totals.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalPosts, err := h.queries.CountPosts(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}
	totalCategories, err := h.queries.CountCategories(ctx)
	if err != nil {
		logAndInternalError(w, "failed to count categories", "error", err)
		return
	}
	recent, err := h.queries.ListRecentPosts(ctx, dashboardRecentLimit)
	if err != nil {
		logAndInternalError(w, "failed to list recent posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/dashboard", map[string]any{
		"Title":            "Dashboard",
		"TotalPosts":       totalPosts,
		"TotalCategories":  totalCategories,
		"TotalRecentPosts": len(recent),
	})
}

// Categories renders the category manager. Named categories are merged
// with the distinct categories already present on posts, so categories
// that predate the category table still show up.
func (h *AdminHandler) Categories(w http.ResponseWriter, r *http.Request) {
	names, err := h.mergedCategories(r)
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/categories", map[string]any{
		"Title":      "Categories",
		"Categories": names,
	})
}

func (h *AdminHandler) mergedCategories(r *http.Request) ([]string, error) {
	ctx := r.Context()

	categories, err := h.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	fromPosts, err := h.queries.DistinctPostCategories(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(categories)+len(fromPosts))
	var names []string
	for _, c := range categories {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	for _, name := range fromPosts {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AddCategory creates a named category. Duplicates surface as a flash
// message rather than an error page.
func (h *AdminHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminCategories) {
		return
	}

	name := strings.TrimSpace(r.FormValue("category"))
	if name == "" {
		flashError(w, r, h.renderer, RouteAdminCategories, "Category name is required")
		return
	}

	if _, err := h.queries.CreateCategory(r.Context(), name, time.Now()); err != nil {
		if store.IsDuplicate(err) {
			flashError(w, r, h.renderer, RouteAdminCategories, "Category already exists")
			return
		}
		logAndInternalError(w, "failed to create category", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminCategories, "Category added")
}

// DeleteCategory removes a category and every post filed under it, in one
// transaction.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	if name == "" {
		flashError(w, r, h.renderer, RouteAdminCategories, "Category name is required")
		return
	}

	deleted, err := h.deleteCategoryTx(r.Context(), name)
	if err != nil {
		logAndInternalError(w, "failed to delete category", "error", err, "category", name)
		return
	}

	slog.Info("category deleted", "category", name, "posts_deleted", deleted)
	flashSuccess(w, r, h.renderer, RouteAdminCategories, "Category deleted")
}

func (h *AdminHandler) deleteCategoryTx(ctx context.Context, name string) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	qtx := h.queries.WithTx(tx)
	if err := qtx.DeleteCategoryByName(ctx, name); err != nil {
		return 0, err
	}
	deleted, err := qtx.DeletePostsByCategory(ctx, name)
	if err != nil {
		return 0, err
	}
	return deleted, tx.Commit()
}

// Posts renders the full post list for the admin.
func (h *AdminHandler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/posts", map[string]any{
		"Title": "Posts",
		"Posts": posts,
	})
}

// RecentPosts renders the latest posts by creation time.
func (h *AdminHandler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListRecentPosts(r.Context(), adminRecentPostsLimit)
	if err != nil {
		logAndInternalError(w, "failed to list recent posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/recent-posts", map[string]any{
		"Title": "Recent Posts",
		"Posts": posts,
	})
}

// PostDetail renders one post by ID.
func (h *AdminHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/post-details", map[string]any{
		"Title": post.Title,
		"Post":  post,
	})
}

// EditPostForm renders the edit form for one post.
func (h *AdminHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.queries.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "post_id", id)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/edit-post", map[string]any{
		"Title": "Edit Post",
		"Post":  post,
	})
}

// EditPost applies a partial update to title, category and body. The link
// slug is never regenerated, so existing URLs keep working.
func (h *AdminHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminPosts) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")
	if title == "" || strings.TrimSpace(content) == "" {
		flashError(w, r, h.renderer, RouteAdminPosts, "Title and content are required")
		return
	}

	err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		ID:        id,
		Title:     title,
		Category:  strings.TrimSpace(r.FormValue("category")),
		Body:      h.sanitizer.Sanitize(content),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to update post", "error", err, "post_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdminPosts, "Post updated")
}

// DeletePost removes one post.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if err := h.queries.DeletePost(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", id)
		return
	}

	slog.Info("post deleted", "post_id", id)
	flashSuccess(w, r, h.renderer, RouteAdminPosts, "Post deleted")
}

// ComposeForm renders the compose page with the available categories.
func (h *AdminHandler) ComposeForm(w http.ResponseWriter, r *http.Request) {
	names, err := h.mergedCategories(r)
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "admin/compose", map[string]any{
		"Title":      "Compose",
		"Categories": names,
	})
}

// Compose creates a new post from the multipart form, storing an uploaded
// image if one was provided. The body is sanitized before it is written.
func (h *AdminHandler) Compose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")

	renderFailed := func(message string) {
		names, err := h.mergedCategories(r)
		if err != nil {
			logAndInternalError(w, "failed to list categories", "error", err)
			return
		}
		h.renderer.HTML(w, r, http.StatusBadRequest, "admin/compose", map[string]any{
			"Title":      "Compose",
			"Error":      message,
			"PostTitle":  title,
			"Categories": names,
			"Category":   r.FormValue("category"),
			"Tags":       r.FormValue("tags"),
			"Content":    content,
		})
	}

	if title == "" || strings.TrimSpace(content) == "" {
		renderFailed("Title and content are required")
		return
	}

	var image sql.NullString
	if file, header, err := r.FormFile("image"); err == nil {
		defer func() {
			_ = file.Close()
		}()
		url, err := h.media.SaveImage(file, header)
		if err != nil {
			slog.Warn("image upload rejected", "error", err)
			renderFailed("Could not process the uploaded image")
			return
		}
		image = sql.NullString{String: url, Valid: true}
	}

	now := time.Now()
	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:     title,
		Body:      h.sanitizer.Sanitize(content),
		Image:     image,
		Link:      util.Slugify(title),
		Tags:      strings.TrimSpace(r.FormValue("tags")),
		Category:  strings.TrimSpace(r.FormValue("category")),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create post", "error", err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "link", post.Link)
	http.Redirect(w, r, "/posts/"+post.Link, http.StatusSeeOther)
}
