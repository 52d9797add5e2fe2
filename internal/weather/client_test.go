package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleResponse = `{
	"name": "Kyiv",
	"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
	"main": {"temp": 21.5, "feels_like": 20.9, "humidity": 48},
	"wind": {"speed": 3.6}
}`

func TestLookup(t *testing.T) {
	var gotQuery, gotKey, gotUnits string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("appid")
		gotUnits = r.URL.Query().Get("units")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	reading, err := client.Lookup(context.Background(), "Kyiv")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if gotQuery != "Kyiv" {
		t.Errorf("q = %q; want Kyiv", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("appid = %q; want test-key", gotKey)
	}
	if gotUnits != "metric" {
		t.Errorf("units = %q; want metric", gotUnits)
	}

	if reading.Location != "Kyiv" {
		t.Errorf("Location = %q", reading.Location)
	}
	if reading.Description != "scattered clouds" {
		t.Errorf("Description = %q", reading.Description)
	}
	if reading.TempC != 21.5 {
		t.Errorf("TempC = %v", reading.TempC)
	}
	if reading.FeelsLikeC != 20.9 {
		t.Errorf("FeelsLikeC = %v", reading.FeelsLikeC)
	}
	if reading.Humidity != 48 {
		t.Errorf("Humidity = %v", reading.Humidity)
	}
	if reading.WindSpeed != 3.6 {
		t.Errorf("WindSpeed = %v", reading.WindSpeed)
	}
	if reading.Icon != "03d" {
		t.Errorf("Icon = %q", reading.Icon)
	}
}

func TestLookupUnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.Lookup(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "test-key", BaseURL: srv.URL})

	_, err := client.Lookup(context.Background(), "Kyiv")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server error misreported as not found")
	}
}

func TestLookupWithoutAPIKey(t *testing.T) {
	client := New(Config{})

	_, err := client.Lookup(context.Background(), "Kyiv")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
