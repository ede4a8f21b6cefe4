package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
)

// errorBody is the JSON shape every protocol error responds with.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// KeyAuth builds [Middleware] rejecting requests whose X-MMT-KEY header does
// not digest-match the configured key. The comparison is constant time; an
// unconfigured key rejects everything.
func KeyAuth(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(services.KeyHeader)
			if key == "" || presented == "" || !shared.VerifyKey(key, presented) {
				writeError(w, http.StatusUnauthorized, "invalid_key", "migration key missing or invalid")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger builds [Middleware] logging each request's method, path, and
// duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
