// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/techalpha/blog/internal/mailer"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/util"
)

// SubscribeHandler handles mailing-list signups.
type SubscribeHandler struct {
	queries *store.Queries
	mailer  mailer.Sender
}

// NewSubscribeHandler creates a new SubscribeHandler.
func NewSubscribeHandler(db *sql.DB, sender mailer.Sender) *SubscribeHandler {
	return &SubscribeHandler{
		queries: store.New(db),
		mailer:  sender,
	}
}

// Subscribe adds an address to the mailing list and sends the thank-you
// email before redirecting. The unique index on the email column is the
// source of truth for duplicates; the lookup beforehand is just the fast
// path for the common case.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := util.NormalizeEmail(r.FormValue("email"))
	if name == "" || email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	if _, err := h.queries.GetSubscriberByEmail(r.Context(), email); err == nil {
		http.Error(w, "Email is already subscribed", http.StatusBadRequest)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "failed to look up subscriber", "error", err)
		return
	}

	subscriber, err := h.queries.CreateSubscriber(r.Context(), store.CreateSubscriberParams{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if store.IsDuplicate(err) {
			http.Error(w, "Email is already subscribed", http.StatusBadRequest)
			return
		}
		logAndInternalError(w, "failed to create subscriber", "error", err)
		return
	}

	if err := h.mailer.SendSubscribeThankYou(r.Context(), email, name); err != nil {
		if !errors.Is(err, mailer.ErrNotConfigured) {
			logAndInternalError(w, "failed to send subscribe email", "error", err, "subscriber_id", subscriber.ID)
			return
		}
		slog.Warn("mailer not configured, skipping subscribe email", "subscriber_id", subscriber.ID)
	}

	slog.Info("new subscriber", "subscriber_id", subscriber.ID)
	http.Redirect(w, r, RouteSubscribeThankYou, http.StatusSeeOther)
}
