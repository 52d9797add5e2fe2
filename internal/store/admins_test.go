package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/testutil"
)

func TestCreateAndGetAdmin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	admin, err := q.CreateAdmin(ctx, store.CreateAdminParams{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$fake",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID == 0 {
		t.Error("admin ID not assigned")
	}
	if admin.LastLoginAt.Valid {
		t.Error("LastLoginAt should be null for a new account")
	}

	byEmail, err := q.GetAdminByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if byEmail.ID != admin.ID {
		t.Errorf("GetAdminByEmail ID = %d; want %d", byEmail.ID, admin.ID)
	}

	byID, err := q.GetAdminByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetAdminByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("GetAdminByID email = %q", byID.Email)
	}
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	params := store.CreateAdminParams{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	if _, err := q.CreateAdmin(ctx, params); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	_, err := q.CreateAdmin(ctx, params)
	if err == nil {
		t.Fatal("duplicate admin insert succeeded")
	}
	if !store.IsDuplicate(err) {
		t.Errorf("IsDuplicate(%v) = false; want true", err)
	}
}

func TestUpdateAdminLastLogin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	admin, err := q.CreateAdmin(ctx, store.CreateAdminParams{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	at := time.Now()
	if err := q.UpdateAdminLastLogin(ctx, admin.ID, at); err != nil {
		t.Fatalf("UpdateAdminLastLogin: %v", err)
	}

	updated, err := q.GetAdminByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetAdminByID: %v", err)
	}
	if !updated.LastLoginAt.Valid {
		t.Error("LastLoginAt still null after update")
	}
}

func TestGetAdminMissing(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	if _, err := q.GetAdminByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if _, err := q.GetAdminByID(context.Background(), 42); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
