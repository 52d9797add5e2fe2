// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route paths used across handlers.
const (
	RouteRoot              = "/"
	RouteAbout             = "/about"
	RouteWeather           = "/weather"
	RouteContact           = "/contact"
	RouteCompose           = "/compose"
	RouteThankYou          = "/thank-you"
	RouteSignupThankYou    = "/signup-thankyou"
	RouteSubscribeThankYou = "/thank-you-for-subscribing"

	RouteAdminLogin       = "/admin/login"
	RouteAdminSignup      = "/admin/signup"
	RouteAdminDashboard   = "/admin/dashboard"
	RouteAdminPosts       = "/admin/posts"
	RouteAdminCategories  = "/admin/categories"
	RouteAdminRecentPosts = "/admin/recentPosts"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
)

// Home page size.
const postsPerPage = 10

// Dashboard and admin listing limits.
const (
	dashboardRecentLimit  = 5
	adminRecentPostsLimit = 10
)
