// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/techalpha/blog/internal/model"
)

const subscriberColumns = "id, email, name, created_at, updated_at"

// CreateSubscriberParams holds the fields for a mailing-list entry.
// Email must already be normalized (lowercased and trimmed) by the caller.
type CreateSubscriberParams struct {
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateSubscriber inserts a mailing-list entry. A duplicate email surfaces
// as a unique-constraint error (see IsDuplicate); the unique index is the
// source of truth under concurrent identical requests.
func (q *Queries) CreateSubscriber(ctx context.Context, arg CreateSubscriberParams) (model.Subscriber, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO subscribers (email, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Email, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Subscriber{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subscriber{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Subscriber{
		ID:        id,
		Email:     arg.Email,
		Name:      arg.Name,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.UpdatedAt,
	}, nil
}

// GetSubscriberByEmail returns the subscriber with the given normalized email.
func (q *Queries) GetSubscriberByEmail(ctx context.Context, email string) (model.Subscriber, error) {
	var s model.Subscriber
	err := q.db.QueryRowContext(ctx,
		"SELECT "+subscriberColumns+" FROM subscribers WHERE email = ?", email).
		Scan(&s.ID, &s.Email, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CountSubscribers returns the number of mailing-list entries.
func (q *Queries) CountSubscribers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscribers").Scan(&n)
	return n, err
}
