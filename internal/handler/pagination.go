// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
)

// Pagination holds page navigation data for list templates.
type Pagination struct {
	Page       int
	TotalPages int
	TotalItems int64
	PerPage    int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// pageFromQuery reads the ?page= query parameter, defaulting to 1.
func pageFromQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// buildPagination creates pagination data for the given page and totals.
func buildPagination(page int, totalItems int64, perPage int) Pagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Page:       page,
		TotalPages: totalPages,
		TotalItems: totalItems,
		PerPage:    perPage,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
}
