// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after the given duration and answers
// 503 if the handler has not produced a response by then.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := &safeWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(sw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				sw.mu.Lock()
				defer sw.mu.Unlock()
				if !sw.wrote {
					sw.wrote = true
					sw.timedOut = true
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte("Request timeout"))
				}
			}
		})
	}
}

// safeWriter serializes writes so the timeout branch and a late handler
// cannot both write headers. Once the timeout branch has claimed the
// response, late handler writes are discarded entirely.
type safeWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	wrote    bool
	timedOut bool
}

func (sw *safeWriter) WriteHeader(code int) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.wrote {
		return
	}
	sw.wrote = true
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *safeWriter) Write(b []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.timedOut {
		return len(b), nil
	}
	if !sw.wrote {
		sw.wrote = true
		sw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}
