// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation.
package util

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRuns matches one or more consecutive whitespace characters
	whitespaceRuns = regexp.MustCompile(`\s+`)
	// slugStrip matches everything that is not a lowercase letter, digit or hyphen
	slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Slugify derives a URL slug from a post title. The title is lowercased,
// whitespace runs become single hyphens, and any remaining character outside
// [a-z0-9-] is removed. Hyphens are neither collapsed nor trimmed: the slug
// is part of the public URL and existing links depend on these exact bytes.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRuns.ReplaceAllString(s, "-")
	return slugStrip.ReplaceAllString(s, "")
}

// IsValidSlug reports whether s contains only lowercase letters, digits and
// hyphens. Unlike Slugify it rejects the empty string.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// NormalizeEmail lowercases and trims an email address for storage and
// duplicate comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
