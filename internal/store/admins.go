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

const adminColumns = "id, name, email, password_hash, created_at, updated_at, last_login_at"

func scanAdmin(row interface{ Scan(...any) error }) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt, &a.LastLoginAt)
	return a, err
}

// CreateAdminParams holds the fields for creating an admin account.
type CreateAdminParams struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAdmin inserts a new admin account. A duplicate email surfaces as a
// unique-constraint error (see IsDuplicate).
func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (model.Admin, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO admins (name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.PasswordHash, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Admin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Admin{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Admin{
		ID:           id,
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.UpdatedAt,
	}, nil
}

// GetAdminByEmail returns the admin with the given email.
func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE email = ?", email))
}

// GetAdminByID returns the admin with the given ID.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (model.Admin, error) {
	return scanAdmin(q.db.QueryRowContext(ctx,
		"SELECT "+adminColumns+" FROM admins WHERE id = ?", id))
}

// UpdateAdminLastLogin records the time of a successful login.
func (q *Queries) UpdateAdminLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE admins SET last_login_at = ? WHERE id = ?", sql.NullTime{Time: at, Valid: true}, id)
	return err
}
