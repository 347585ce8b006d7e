// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/community-ballot/middleware"
	"github.com/danielhkuo/community-ballot/store"
	"github.com/danielhkuo/community-ballot/tally"
)

type ResultsHandler struct {
	store  *store.Store
	engine *tally.Engine
}

func NewResultsHandler(st *store.Store) *ResultsHandler {
	return &ResultsHandler{store: st, engine: tally.NewEngine(st)}
}

// GetTally handles GET /questions/{id}/tally
// Returns per-choice counts. Sealed until the administrator opens results.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	questionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid question id")
		return
	}

	resp, err := h.engine.Count(voter, questionID)
	switch {
	case err == nil:
	case errors.Is(err, tally.ErrResultsClosed):
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are not open yet")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	default:
		slog.Error("failed to tally question", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetHistory handles GET /votes/history
// A voter's own record, newest first. Not gated by results_open.
func (h *ResultsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	history, err := h.engine.History(voter)
	if err != nil {
		slog.Error("failed to query voting history", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}
