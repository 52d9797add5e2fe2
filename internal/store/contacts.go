// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/techalpha/blog/internal/model"
)

// CreateContactParams holds a contact-form submission.
type CreateContactParams struct {
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// CreateContact persists a contact-form message. Contacts are write-only:
// nothing reads them back through the HTTP surface.
func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (model.Contact, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO contacts (name, email, message, created_at) VALUES (?, ?, ?, ?)",
		arg.Name, arg.Email, arg.Message, arg.CreatedAt)
	if err != nil {
		return model.Contact{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Contact{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Contact{
		ID:        id,
		Name:      arg.Name,
		Email:     arg.Email,
		Message:   arg.Message,
		CreatedAt: arg.CreatedAt,
	}, nil
}

// CountContacts returns the number of stored contact messages.
func (q *Queries) CountContacts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&n)
	return n, err
}
