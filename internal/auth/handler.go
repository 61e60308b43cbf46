package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler serves the token endpoints under /api/auth.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Me echoes the caller's token claims. It must sit behind Middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respond(w, http.StatusUnauthorized, errorBody{"not authenticated"})
		return
	}
	respond(w, http.StatusOK, claims)
}

// Refresh trades a valid token for a fresh one with a full lifetime.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if subject == "" {
		respond(w, http.StatusUnauthorized, errorBody{"not authenticated"})
		return
	}
	token, err := h.service.IssueToken(subject)
	if err != nil {
		slog.Error("refresh token", "subject", subject, "error", err)
		respond(w, http.StatusInternalServerError, errorBody{"internal error"})
		return
	}
	respond(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{token})
}

type errorBody struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("write response", "error", err)
	}
}
