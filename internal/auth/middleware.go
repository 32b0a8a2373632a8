// Package auth guards the network transports.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sha1n/mcp-eda-server/internal/config"
)

// Middleware wraps an http.Handler
type Middleware = func(http.Handler) http.Handler

type tokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// NewMiddleware creates a new authentication middleware based on settings.
// OIDC discovery runs once, here, using ctx.
func NewMiddleware(ctx context.Context, settings config.AuthSettings) (Middleware, error) {
	switch settings.Type {
	case config.AuthNone, "":
		return func(next http.Handler) http.Handler {
			return next
		}, nil
	case config.AuthBasic:
		return basicAuthMiddleware(settings.Basic), nil
	case config.AuthAPIKey:
		return apiKeyMiddleware(settings.APIKey), nil
	case config.AuthOIDC:
		provider, err := oidc.NewProvider(ctx, settings.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
		verifier := provider.Verifier(&oidc.Config{ClientID: settings.OIDC.ClientID})
		return bearerTokenMiddleware(verifier), nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", settings.Type)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("Rejected request", "path", r.URL.Path, "remote", r.RemoteAddr, "reason", reason)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func basicAuthMiddleware(settings config.BasicAuthSettings) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(settings.Username)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(settings.Password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="mcp-eda"`)
				unauthorized(w, r, "invalid basic credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func apiKeyMiddleware(apiKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				unauthorized(w, r, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerTokenMiddleware(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimPrefix(authHeader, "Bearer ")
			} else {
				token = r.URL.Query().Get("token")
			}

			if token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				unauthorized(w, r, "missing token")
				return
			}

			if _, err := verifier.Verify(r.Context(), token); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				unauthorized(w, r, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
