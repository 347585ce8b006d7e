// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/community-ballot/auth"
	"github.com/danielhkuo/community-ballot/cliparse"
	"github.com/danielhkuo/community-ballot/middleware"
	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/roster"
	"github.com/danielhkuo/community-ballot/store"
)

type AdminHandler struct {
	store    *store.Store
	importer *roster.Importer
	cfg      cliparse.Config
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: st, importer: roster.NewImporter(st), cfg: cfg}
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(key, h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// GetSettings handles GET /admin/settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	settings, err := h.store.Settings()
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /admin/settings
// Either flag may be omitted; omitted flags keep their value. Flags sent
// together are applied atomically.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VotingOpen == nil && req.ResultsOpen == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one of voting_open, results_open is required")
		return
	}

	if err := h.store.SetSettings(req.VotingOpen, req.ResultsOpen); err != nil {
		slog.Error("failed to update settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	settings, err := h.store.Settings()
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("settings updated",
		"voting_open", settings.VotingOpen,
		"results_open", settings.ResultsOpen,
	)

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// ImportVoters handles POST /admin/import/voters
// Accepts a CSV body with columns name, email, community. The
// regenerate_tokens query parameter controls token minting for existing
// voters.
func (h *AdminHandler) ImportVoters(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := roster.ParseVoterCSV(r.Body)
	if errors.Is(err, roster.ErrSchema) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid CSV")
		return
	}

	regenerate := r.URL.Query().Get("regenerate_tokens") == "true"
	summary := h.importer.ImportVoters(rows, regenerate)

	slog.Info("voters imported",
		"imported", summary.Imported,
		"failed", len(summary.Failures),
		"regenerate_tokens", regenerate,
	)

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// ImportQuestions handles POST /admin/import/questions
// Accepts a CSV body with columns community, title, description.
func (h *AdminHandler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rows, err := roster.ParseQuestionCSV(r.Body)
	if errors.Is(err, roster.ErrSchema) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid CSV")
		return
	}

	summary := h.importer.ImportQuestions(rows)

	slog.Info("questions imported",
		"imported", summary.Imported,
		"failed", len(summary.Failures),
	)

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// GetRoster handles GET /admin/roster
func (h *AdminHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	entries, err := h.importer.Logins()
	if err != nil {
		slog.Error("failed to query login roster", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// GetRosterCSV handles GET /admin/roster.csv
// The downloadable login roster for credential distribution.
func (h *AdminHandler) GetRosterCSV(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	entries, err := h.importer.Logins()
	if err != nil {
		slog.Error("failed to query login roster", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="login-roster.csv"`)
	if err := roster.WriteLoginsCSV(w, entries); err != nil {
		slog.Error("failed to write roster CSV", "error", err)
	}
}

// GetStats handles GET /admin/stats
// Quick overview counts for the admin page.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		slog.Error("failed to query stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
