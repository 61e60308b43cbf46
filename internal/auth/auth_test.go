package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, err := s.IssueToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "alice" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if d := time.Until(claims.ExpiresAt); d <= 0 || d > time.Hour {
		t.Errorf("expiry %v is not about an hour away", claims.ExpiresAt)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	good, _ := s.IssueToken("alice")

	expired := NewService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.IssueToken("alice")

	other, _ := NewService("other-secret", time.Hour).IssueToken("alice")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"tampered", good + "x"},
		{"expired", old},
		{"wrong secret", other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, err := s.IssueToken(""); err == nil {
		t.Errorf("expected an error for an empty subject")
	}
}

func TestMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, _ := s.IssueToken("bob")

	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(SubjectFromContext(r.Context())))
	}))

	tests := []struct {
		name   string
		url    string
		header string
		status int
		body   string
	}{
		{"missing", "/api/x", "", http.StatusUnauthorized, ""},
		{"bearer", "/api/x", "Bearer " + token, http.StatusOK, "bob"},
		{"query", "/ws?token=" + token, "", http.StatusOK, "bob"},
		{"wrong scheme", "/api/x", "Basic " + token, http.StatusUnauthorized, ""},
		{"bad token", "/api/x", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestHandlerMeAndRefresh(t *testing.T) {
	s := NewService("secret", time.Hour)
	h := NewHandler(s)
	token, _ := s.IssueToken("carol")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s.Middleware(http.HandlerFunc(h.Me)).ServeHTTP(rec, req)

	var claims Claims
	if err := json.NewDecoder(rec.Body).Decode(&claims); err != nil || claims.Subject != "carol" {
		t.Fatalf("me = %+v, %v", claims, err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s.Middleware(http.HandlerFunc(h.Refresh)).ServeHTTP(rec, req)

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ValidateToken(resp.Token); err != nil {
		t.Errorf("refreshed token invalid: %v", err)
	}

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated me = %d", rec.Code)
	}
}
