// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/community-ballot/ballot"
	"github.com/danielhkuo/community-ballot/middleware"
	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

type VoteHandler struct {
	store  *store.Store
	engine *ballot.Engine
}

func NewVoteHandler(st *store.Store) *VoteHandler {
	return &VoteHandler{store: st, engine: ballot.NewEngine(st)}
}

// ListQuestions handles GET /questions
// Returns the voter's community questions in ascending id order.
func (h *VoteHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	questions, err := h.store.QuestionsByCommunity(voter.CommunityID)
	if err != nil {
		slog.Error("failed to query questions", "error", err, "community_id", voter.CommunityID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, questions)
}

// MyChoices handles GET /votes/mine
// Returns the voter's current answers keyed by question id.
func (h *VoteHandler) MyChoices(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	choices, err := h.engine.ExistingChoices(voter)
	if err != nil {
		slog.Error("failed to query existing choices", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, choices)
}

// CastVote handles POST /questions/{id}/vote
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	questionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err = h.engine.Cast(voter, questionID, req.Choice)
	switch {
	case err == nil:
	case errors.Is(err, ballot.ErrVotingClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is closed")
		return
	case errors.Is(err, ballot.ErrInvalidChoice):
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice must be agree, disagree, or no_opinion")
		return
	case errors.Is(err, ballot.ErrCommunityMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "question belongs to a different community")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	default:
		slog.Error("failed to cast vote", "error", err, "voter_id", voter.ID, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("vote cast", "voter_id", voter.ID, "question_id", questionID)

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		QuestionID: questionID,
		Choice:     req.Choice,
		Message:    "Vote recorded",
	})
}

// CastVotesBatch handles POST /votes
// Applies a set of (question, choice) pairs independently and reports the
// accepted count plus per-question rejections.
func (h *VoteHandler) CastVotesBatch(w http.ResponseWriter, r *http.Request) {
	voter, ok := requireVoter(w, r, h.store)
	if !ok {
		return
	}

	var req models.BatchVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Votes) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votes cannot be empty")
		return
	}

	result, err := h.engine.CastBatch(voter, req.Votes)
	if err != nil {
		slog.Error("failed to cast vote batch", "error", err, "voter_id", voter.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("vote batch cast", "voter_id", voter.ID,
		"accepted", result.Accepted, "rejected", len(result.Rejections))

	middleware.JSONResponse(w, http.StatusOK, result)
}
