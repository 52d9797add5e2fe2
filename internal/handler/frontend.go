// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public site and the
// admin area.
package handler

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/techalpha/blog/internal/mailer"
	"github.com/techalpha/blog/internal/render"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/weather"
)

// WeatherCategory is the post category surfaced on the weather page.
const WeatherCategory = "Weather"

// FrontendHandler handles the public site routes.
type FrontendHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	mailer         mailer.Sender
	weather        *weather.Client
	alertRecipient string
	aboutHTML      template.HTML
}

// NewFrontendHandler creates a FrontendHandler. aboutMarkdown is rendered
// to HTML once at startup.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, sender mailer.Sender, wc *weather.Client, alertRecipient string, aboutMarkdown []byte) (*FrontendHandler, error) {
	md := goldmark.New(
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := md.Convert(aboutMarkdown, &buf); err != nil {
		return nil, fmt.Errorf("rendering about page: %w", err)
	}

	return &FrontendHandler{
		queries:        store.New(db),
		renderer:       renderer,
		mailer:         sender,
		weather:        wc,
		alertRecipient: alertRecipient,
		aboutHTML:      template.HTML(buf.String()),
	}, nil
}

// Home renders the paginated post list, newest first.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)

	total, err := h.queries.CountPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count posts", "error", err)
		return
	}

	pagination := buildPagination(page, total, postsPerPage)
	posts, err := h.queries.ListPostsPage(r.Context(), postsPerPage, int64(pagination.Page-1)*postsPerPage)
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "home", map[string]any{
		"Posts":      posts,
		"Pagination": pagination,
	})
}

// About renders the static about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "about", map[string]any{
		"Title":   "About",
		"Content": h.aboutHTML,
	})
}

// Post renders a single post looked up by its link slug.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	link := chi.URLParam(r, "link")

	post, err := h.queries.GetPostByLink(r.Context(), link)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		logAndInternalError(w, "failed to get post", "error", err, "link", link)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "post", map[string]any{
		"Title": post.Title,
		"Post":  post,
	})
}

// WeatherPage renders the weather form along with posts in the Weather
// category.
func (h *FrontendHandler) WeatherPage(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPostsByCategory(r.Context(), WeatherCategory)
	if err != nil {
		logAndInternalError(w, "failed to list weather posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "weather", map[string]any{
		"Title": "Weather",
		"Posts": posts,
	})
}

// WeatherLookup handles the weather form submission and renders the page
// with the fetched reading. Lookup failures render the error page.
func (h *FrontendHandler) WeatherLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	location := strings.TrimSpace(r.FormValue("location"))
	if location == "" {
		http.Error(w, "Location is required", http.StatusBadRequest)
		return
	}

	reading, err := h.weather.Lookup(r.Context(), location)
	if err != nil {
		slog.Error("weather lookup failed", "error", err, "location", location)
		message := "Could not fetch the weather right now. Please try again later."
		if errors.Is(err, weather.ErrNotFound) {
			message = "We could not find that location."
		}
		h.renderer.HTML(w, r, http.StatusInternalServerError, "error", map[string]any{
			"Title":   "Error",
			"Message": message,
		})
		return
	}

	posts, err := h.queries.ListPostsByCategory(r.Context(), WeatherCategory)
	if err != nil {
		logAndInternalError(w, "failed to list weather posts", "error", err)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "weather", map[string]any{
		"Title":   "Weather",
		"Reading": reading,
		"Posts":   posts,
	})
}

// ContactForm renders the contact page.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "contact", map[string]any{
		"Title": "Contact",
	})
}

// ContactSubmit stores the message and notifies the site admin by email
// in the background. The sender is redirected regardless of whether the
// notification goes out.
func (h *FrontendHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))
	if name == "" || email == "" || message == "" {
		http.Error(w, "Name, email and message are required", http.StatusBadRequest)
		return
	}

	_, err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to save contact", "error", err)
		return
	}

	if h.alertRecipient != "" {
		go h.sendContactAlert(name, email, message)
	}

	http.Redirect(w, r, RouteThankYou, http.StatusSeeOther)
}

func (h *FrontendHandler) sendContactAlert(name, email, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := fmt.Sprintf("New contact message from %s <%s>:\n\n%s\n", name, email, message)
	if err := h.mailer.Send(ctx, h.alertRecipient, "New Contact Message", body); err != nil {
		if !errors.Is(err, mailer.ErrNotConfigured) {
			slog.Error("failed to send contact alert", "error", err)
		}
	}
}

// ThankYou renders the contact confirmation page.
func (h *FrontendHandler) ThankYou(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "thank-you", map[string]any{
		"Title": "Thank You",
	})
}

// SignupThankYou renders the signup confirmation page.
func (h *FrontendHandler) SignupThankYou(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "signup-thankyou", map[string]any{
		"Title": "Account Created",
	})
}

// SubscribeThankYou renders the mailing-list confirmation page.
func (h *FrontendHandler) SubscribeThankYou(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "subscribe-thankyou", map[string]any{
		"Title": "Thank You for Subscribing",
	})
}
