// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package weather looks up current conditions for a location through the
// OpenWeatherMap API. One outbound call per request, no retry, no caching.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// RequestTimeout bounds a single lookup.
const RequestTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the API does not know the location.
	ErrNotFound = errors.New("weather: location not found")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("weather: no API key configured")
)

// Reading holds current conditions for a location.
type Reading struct {
	Location    string
	Description string
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	WindSpeed   float64
	Icon        string
}

// Config holds client settings. BaseURL and HTTPClient default when empty.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client performs weather lookups.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a weather client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}
	return &Client{apiKey: cfg.APIKey, baseURL: baseURL, httpClient: httpClient}
}

// apiResponse mirrors the subset of the OpenWeatherMap payload we use.
type apiResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Lookup fetches current conditions for a free-text location. Returns
// ErrNotFound when the API does not recognize the location and a transport
// error otherwise.
func (c *Client) Lookup(ctx context.Context, location string) (*Reading, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling weather API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	reading := &Reading{
		Location:   payload.Name,
		TempC:      payload.Main.Temp,
		FeelsLikeC: payload.Main.FeelsLike,
		Humidity:   payload.Main.Humidity,
		WindSpeed:  payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		reading.Description = payload.Weather[0].Description
		reading.Icon = payload.Weather[0].Icon
	}
	return reading, nil
}
