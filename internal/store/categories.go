// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/techalpha/blog/internal/model"
)

// CreateCategory inserts a named category. A duplicate name surfaces as a
// unique-constraint error (see IsDuplicate).
func (q *Queries) CreateCategory(ctx context.Context, name string, createdAt time.Time) (model.Category, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (name, created_at) VALUES (?, ?)", name, createdAt)
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Category{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// GetCategoryByName returns the category with the given name.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE name = ?", name).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

// ListCategories returns all named categories alphabetically.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategoryByName removes the category row. Posts carrying the
// category text are handled separately by DeletePostsByCategory.
func (q *Queries) DeleteCategoryByName(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE name = ?", name)
	return err
}

// CountCategories returns the number of named categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n)
	return n, err
}
