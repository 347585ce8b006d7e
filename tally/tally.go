// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"errors"

	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

var ErrResultsClosed = errors.New("results are not open")

// Engine aggregates votes. Counts are gated by the results_open flag; a
// voter's own history is not.
type Engine struct {
	store *store.Store
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Count tallies one question for a voter in its community. The returned map
// always carries all three choices, zero-filled, so charts render a stable
// axis. A question outside the voter's community reads as not found.
func (e *Engine) Count(voter models.Voter, questionID int64) (models.TallyResponse, error) {
	settings, err := e.store.Settings()
	if err != nil {
		return models.TallyResponse{}, err
	}
	if !settings.ResultsOpen {
		return models.TallyResponse{}, ErrResultsClosed
	}

	question, err := e.store.QuestionByID(questionID)
	if err != nil {
		return models.TallyResponse{}, err
	}
	if question.CommunityID != voter.CommunityID {
		return models.TallyResponse{}, store.ErrNotFound
	}

	raw, err := e.store.CountsByQuestion(questionID)
	if err != nil {
		return models.TallyResponse{}, err
	}

	counts := make(map[string]int, len(models.Choices))
	for _, choice := range models.Choices {
		counts[choice] = raw[choice]
	}

	return models.TallyResponse{
		QuestionID: question.ID,
		Title:      question.Title,
		Counts:     counts,
	}, nil
}

// History returns the voter's own records, most recent first. Always
// available to the voter regardless of the results gate.
func (e *Engine) History(voter models.Voter) ([]models.HistoryEntry, error) {
	return e.store.HistoryByVoter(voter.ID, voter.CommunityID)
}
