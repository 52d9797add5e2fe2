// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/techalpha/blog/internal/config"
	"github.com/techalpha/blog/internal/handler"
	"github.com/techalpha/blog/internal/logging"
	"github.com/techalpha/blog/internal/mailer"
	"github.com/techalpha/blog/internal/middleware"
	"github.com/techalpha/blog/internal/render"
	"github.com/techalpha/blog/internal/service"
	"github.com/techalpha/blog/internal/session"
	"github.com/techalpha/blog/internal/store"
	"github.com/techalpha/blog/internal/weather"
	"github.com/techalpha/blog/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Tech Alpha - blog server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_DB_PATH           SQLite database path (default: ./data/blog.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SERVER_PORT       Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_SMTP_HOST         SMTP relay host (email disabled when empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOG_WEATHER_API_KEY   OpenWeatherMap API key (weather lookups disabled when empty)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("blog %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	var sender mailer.Sender
	if cfg.MailEnabled() {
		m, err := mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			return fmt.Errorf("initializing mailer: %w", err)
		}
		sender = m
		slog.Info("mailer initialized", "host", cfg.SMTPHost)
	} else {
		sender = mailer.Disabled{}
		slog.Warn("mail relay not configured, notification email disabled")
	}

	weatherClient := weather.New(weather.Config{APIKey: cfg.WeatherAPIKey})
	if cfg.WeatherAPIKey == "" {
		slog.Warn("weather API key not configured, lookups will fail")
	}

	media := service.NewMediaService(cfg.UploadsDir)

	frontendHandler, err := handler.NewFrontendHandler(db, renderer, sender, weatherClient,
		cfg.ContactAlertRecipient(), web.AboutMarkdown)
	if err != nil {
		return fmt.Errorf("initializing frontend handler: %w", err)
	}
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager)
	adminHandler := handler.NewAdminHandler(db, renderer, media)
	subscribeHandler := handler.NewSubscribeHandler(db, sender)

	// Rate limit the unauthenticated write endpoints.
	formLimiter := middleware.NewIPRateLimiter(1, 5)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadAdmin(sessionManager, db))
	r.Use(middleware.RecentPosts(db))

	// Public routes
	r.Get(handler.RouteRoot, frontendHandler.Home)
	r.Get(handler.RouteAbout, frontendHandler.About)
	r.Get("/posts/{link}", frontendHandler.Post)
	r.Get(handler.RouteWeather, frontendHandler.WeatherPage)
	r.Post(handler.RouteWeather, frontendHandler.WeatherLookup)
	r.Get(handler.RouteContact, frontendHandler.ContactForm)
	r.With(formLimiter.Middleware()).Post(handler.RouteContact, frontendHandler.ContactSubmit)
	r.Get(handler.RouteThankYou, frontendHandler.ThankYou)
	r.Get(handler.RouteSignupThankYou, frontendHandler.SignupThankYou)
	r.Get(handler.RouteSubscribeThankYou, frontendHandler.SubscribeThankYou)
	r.With(formLimiter.Middleware()).Post("/subscribe", subscribeHandler.Subscribe)

	// Auth routes
	r.Get(handler.RouteAdminSignup, authHandler.SignupForm)
	r.With(formLimiter.Middleware()).Post(handler.RouteAdminSignup, authHandler.Signup)
	r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
	r.With(formLimiter.Middleware()).Post(handler.RouteAdminLogin, authHandler.Login)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(sessionManager))

		r.Get(handler.RouteCompose, adminHandler.ComposeForm)
		r.Post(handler.RouteCompose, adminHandler.Compose)
		r.Get(handler.RouteAdminDashboard, adminHandler.Dashboard)
		r.Get("/admin/logout", authHandler.Logout)
		r.Post("/admin/logout", authHandler.Logout)
		r.Get(handler.RouteAdminCategories, adminHandler.Categories)
		r.Post("/admin/add-category", adminHandler.AddCategory)
		r.Post("/admin/delete-category/{category}", adminHandler.DeleteCategory)
		r.Get(handler.RouteAdminPosts, adminHandler.Posts)
		r.Get("/admin/edit-post/{id}", adminHandler.EditPostForm)
		r.Post("/admin/edit-post/{id}", adminHandler.EditPost)
		r.Post("/admin/delete-post/{id}", adminHandler.DeletePost)
		r.Get(handler.RouteAdminRecentPosts, adminHandler.RecentPosts)
		r.Get("/admin/post/{id}", adminHandler.PostDetail)
	})

	// Static assets and uploads
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(86400)(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	r.Handle("/uploads/*", middleware.StaticCache(604800)(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
