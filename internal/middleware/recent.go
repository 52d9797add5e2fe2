// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/techalpha/blog/internal/model"
	"github.com/techalpha/blog/internal/store"
)

// RecentPostLimit is how many posts the sitewide enrichment step attaches
// to every request.
const RecentPostLimit = 4

// RecentPosts loads the newest posts into the request context before any
// handler runs, so every rendered view can show them. A store failure is
// logged and the request proceeds with an empty list.
func RecentPosts(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			posts, err := queries.ListRecentPosts(r.Context(), RecentPostLimit)
			if err != nil {
				slog.Error("failed to load recent posts", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyRecentPosts, posts)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRecentPosts retrieves the enrichment result from the request context.
func GetRecentPosts(r *http.Request) []model.Post {
	posts, ok := r.Context().Value(ContextKeyRecentPosts).([]model.Post)
	if !ok {
		return nil
	}
	return posts
}
