package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type claimsKey struct{}

// Middleware requires a valid token, taken from the Authorization header or,
// for websocket upgrades where browsers cannot set headers, the token query
// parameter.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearer(r)
		if err != nil {
			respond(w, http.StatusUnauthorized, errorBody{err.Error()})
			return
		}
		claims, err := s.ValidateToken(raw)
		if err != nil {
			respond(w, http.StatusUnauthorized, errorBody{"invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func bearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if q := r.URL.Query().Get("token"); q != "" {
			return q, nil
		}
		return "", errors.New("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errors.New("invalid authorization format")
	}
	return token, nil
}

// SubjectFromContext returns the authenticated subject, or "" when the
// request did not pass through Middleware.
func SubjectFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.Subject
	}
	return ""
}

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
