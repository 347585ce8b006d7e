// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/community-ballot/middleware"
	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

type SessionHandler struct {
	store *store.Store
}

func NewSessionHandler(st *store.Store) *SessionHandler {
	return &SessionHandler{store: st}
}

// Login handles POST /session
// Resolves a voter token to an identity. The server keeps no session state;
// the client presents the same token on every later call.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token is required")
		return
	}

	voter, err := h.store.VoterByToken(req.Token)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err != nil {
		slog.Error("failed to resolve token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	community, err := h.store.CommunityByID(voter.CommunityID)
	if err != nil {
		slog.Error("failed to query community", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	settings, err := h.store.Settings()
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("voter logged in", "voter_id", voter.ID, "community", community.Name)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Voter:     voter,
		Community: community.Name,
		Settings:  settings,
	})
}

// requireVoter resolves the X-Voter-Token header to a voter identity.
// Writes the error response and returns ok=false when the token is missing
// or unknown.
func requireVoter(w http.ResponseWriter, r *http.Request, st *store.Store) (models.Voter, bool) {
	token := r.Header.Get("X-Voter-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return models.Voter{}, false
	}

	voter, err := st.VoterByToken(token)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return models.Voter{}, false
	}
	if err != nil {
		slog.Error("failed to resolve voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Voter{}, false
	}

	return voter, true
}
