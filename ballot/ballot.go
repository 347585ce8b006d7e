// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

var (
	ErrVotingClosed      = errors.New("voting is closed")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrCommunityMismatch = errors.New("question belongs to a different community")
)

// Rejection reason strings used in batch responses.
const (
	ReasonVotingClosed      = "voting_closed"
	ReasonInvalidChoice     = "invalid_choice"
	ReasonCommunityMismatch = "community_mismatch"
	ReasonQuestionNotFound  = "question_not_found"
	ReasonStoreError        = "store_error"
)

// Engine casts and revises votes. All writes go through the store's atomic
// vote upsert; the engine adds the phase gate, choice validation, and the
// cross-community check the storage constraints cannot express.
type Engine struct {
	store *store.Store
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Cast records (or revises) the voter's choice for one question. Casting
// the same choice twice is a no-op apart from the timestamp. Preconditions
// are checked in order: voting gate, choice validity, community match.
func (e *Engine) Cast(voter models.Voter, questionID int64, choice string) error {
	settings, err := e.store.Settings()
	if err != nil {
		return err
	}
	return e.castWith(settings, voter, questionID, choice)
}

func (e *Engine) castWith(settings models.Settings, voter models.Voter, questionID int64, choice string) error {
	if !settings.VotingOpen {
		return ErrVotingClosed
	}

	if !models.ValidChoice(choice) {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	question, err := e.store.QuestionByID(questionID)
	if err != nil {
		return err
	}
	if question.CommunityID != voter.CommunityID {
		return ErrCommunityMismatch
	}

	return e.store.UpsertVote(voter.ID, questionID, choice, time.Now())
}

// CastBatch applies a set of (question, choice) pairs as one logical
// submission. Each pair is validated and applied independently; one
// rejection never blocks the others. The settings snapshot is taken once
// so the whole batch sees a single gate decision.
func (e *Engine) CastBatch(voter models.Voter, votes []models.BatchVoteEntry) (models.BatchVoteResponse, error) {
	settings, err := e.store.Settings()
	if err != nil {
		return models.BatchVoteResponse{}, err
	}

	result := models.BatchVoteResponse{Rejections: []models.VoteRejection{}}
	for _, v := range votes {
		err := e.castWith(settings, voter, v.QuestionID, v.Choice)
		if err == nil {
			result.Accepted++
			continue
		}
		result.Rejections = append(result.Rejections, models.VoteRejection{
			QuestionID: v.QuestionID,
			Reason:     rejectionReason(err),
		})
	}
	return result, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrVotingClosed):
		return ReasonVotingClosed
	case errors.Is(err, ErrInvalidChoice):
		return ReasonInvalidChoice
	case errors.Is(err, ErrCommunityMismatch):
		return ReasonCommunityMismatch
	case errors.Is(err, store.ErrNotFound):
		return ReasonQuestionNotFound
	default:
		return ReasonStoreError
	}
}

// ExistingChoices returns the voter's current answers keyed by question id,
// for pre-populating a ballot form. Unanswered questions are absent.
func (e *Engine) ExistingChoices(voter models.Voter) (map[int64]string, error) {
	return e.store.ChoicesByVoter(voter.ID, voter.CommunityID)
}
