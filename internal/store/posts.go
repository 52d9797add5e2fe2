// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/techalpha/blog/internal/model"
)

const postColumns = "id, title, body, image, link, tags, category, created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Image, &p.Link, &p.Tags, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) collectPosts(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePostParams holds the fields for creating a post.
type CreatePostParams struct {
	Title     string
	Body      string
	Image     sql.NullString
	Link      string
	Tags      string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePost inserts a new post and returns it with its assigned ID.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (title, body, image, link, tags, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Body, arg.Image, arg.Link, arg.Tags, arg.Category, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Post{
		ID:        id,
		Title:     arg.Title,
		Body:      arg.Body,
		Image:     arg.Image,
		Link:      arg.Link,
		Tags:      arg.Tags,
		Category:  arg.Category,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}, nil
}

// ListPosts returns all posts, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	return q.collectPosts(ctx, "SELECT "+postColumns+" FROM posts ORDER BY id DESC")
}

// ListPostsPage returns one page of posts, newest first.
func (q *Queries) ListPostsPage(ctx context.Context, limit, offset int64) ([]model.Post, error) {
	return q.collectPosts(ctx, "SELECT "+postColumns+" FROM posts ORDER BY id DESC LIMIT ? OFFSET ?", limit, offset)
}

// ListPostsByCategory returns all posts whose category exactly matches, newest first.
func (q *Queries) ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error) {
	return q.collectPosts(ctx, "SELECT "+postColumns+" FROM posts WHERE category = ? ORDER BY id DESC", category)
}

// ListRecentPosts returns the newest posts up to limit.
func (q *Queries) ListRecentPosts(ctx context.Context, limit int64) ([]model.Post, error) {
	return q.collectPosts(ctx, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

// GetPostByLink returns the post with the given slug. Slugs are not unique;
// on a collision the oldest post wins.
func (q *Queries) GetPostByLink(ctx context.Context, link string) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE link = ? ORDER BY id ASC LIMIT 1", link))
}

// GetPostByID returns the post with the given ID.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id))
}

// UpdatePostParams holds the editable fields of a post. Image, link and
// tags are deliberately absent: the edit path leaves them untouched.
type UpdatePostParams struct {
	ID        int64
	Title     string
	Category  string
	Body      string
	UpdatedAt time.Time
}

// UpdatePost applies a partial update. Returns sql.ErrNoRows if the post
// does not exist.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, category = ?, body = ?, updated_at = ? WHERE id = ?",
		arg.Title, arg.Category, arg.Body, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePost removes the post with the given ID. Deleting a missing post is
// not an error.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	return err
}

// DeletePostsByCategory removes every post whose category exactly matches
// and returns the number of posts deleted.
func (q *Queries) DeletePostsByCategory(ctx context.Context, category string) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE category = ?", category)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n)
	return n, err
}

// DistinctPostCategories returns the distinct non-empty category values
// used by posts, alphabetically.
func (q *Queries) DistinctPostCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM posts WHERE category != '' ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
