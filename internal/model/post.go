// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records stored by the application:
// posts, admins, categories, contact messages and subscribers.
package model

import (
	"database/sql"
	"time"
)

// Post is a published article. Body holds sanitized HTML. Link is the URL
// slug derived once at creation from the title; it is not unique, so two
// posts with titles that normalize to the same slug may coexist.
type Post struct {
	ID        int64
	Title     string
	Body      string
	Image     sql.NullString // uploaded image filename, empty if none
	Link      string
	Tags      string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage reports whether the post has an uploaded image attached.
// Value receiver so the method is reachable on non-addressable Post
// values inside templates.
func (p Post) HasImage() bool {
	return p.Image.Valid && p.Image.String != ""
}

// Category is a named grouping for posts. Posts reference categories by
// name only; there is no foreign key, so deleting a category bulk-deletes
// every post whose category text matches the name.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
