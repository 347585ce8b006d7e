// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"testing"

	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
	"github.com/danielhkuo/community-ballot/testutil"
)

func TestCastVote(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	commID := testutil.CreateTestCommunity(t, st, "Maple")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", commID)
	question := testutil.CreateTestQuestion(t, st, commID, "Repave the lot?", "")

	if err := engine.Cast(voter, question.ID, models.ChoiceAgree); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}

	counts, err := st.CountsByQuestion(question.ID)
	if err != nil {
		t.Fatalf("CountsByQuestion() error = %v", err)
	}
	if counts[models.ChoiceAgree] != 1 {
		t.Errorf("Expected agree=1, got %d", counts[models.ChoiceAgree])
	}
}

func TestCastVoteRevision(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	commID := testutil.CreateTestCommunity(t, st, "Maple")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", commID)
	question := testutil.CreateTestQuestion(t, st, commID, "Repave the lot?", "")

	if err := engine.Cast(voter, question.ID, models.ChoiceAgree); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if err := engine.Cast(voter, question.ID, models.ChoiceDisagree); err != nil {
		t.Fatalf("Cast() revision error = %v", err)
	}

	choices, err := engine.ExistingChoices(voter)
	if err != nil {
		t.Fatalf("ExistingChoices() error = %v", err)
	}
	if choices[question.ID] != models.ChoiceDisagree {
		t.Errorf("Expected latest choice %q, got %q", models.ChoiceDisagree, choices[question.ID])
	}

	var count int
	err = st.DB().QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = $1`, voter.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote row after revision, got %d", count)
	}
}

func TestCastVoteGateClosed(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	commID := testutil.CreateTestCommunity(t, st, "Maple")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", commID)
	question := testutil.CreateTestQuestion(t, st, commID, "Repave the lot?", "")

	testutil.SetTestSettings(t, st, false, false)

	err := engine.Cast(voter, question.ID, models.ChoiceAgree)
	if !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("Cast() error = %v, want ErrVotingClosed", err)
	}

	// A rejected cast leaves no trace
	var count int
	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 vote rows while voting closed, got %d", count)
	}
}

func TestCastVoteValidation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	maple := testutil.CreateTestCommunity(t, st, "Maple")
	oak := testutil.CreateTestCommunity(t, st, "Oak")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", maple)
	foreign := testutil.CreateTestQuestion(t, st, oak, "Oak business", "")
	local := testutil.CreateTestQuestion(t, st, maple, "Maple business", "")

	tests := []struct {
		name       string
		questionID int64
		choice     string
		wantErr    error
	}{
		{"invalid choice", local.ID, "yes", ErrInvalidChoice},
		{"empty choice", local.ID, "", ErrInvalidChoice},
		{"unknown question", 9999, models.ChoiceAgree, store.ErrNotFound},
		{"foreign community question", foreign.ID, models.ChoiceAgree, ErrCommunityMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Cast(voter, tt.questionID, tt.choice)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Cast() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var count int
	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no vote rows from rejected casts, got %d", count)
	}
}

func TestCastBatch(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	maple := testutil.CreateTestCommunity(t, st, "Maple")
	oak := testutil.CreateTestCommunity(t, st, "Oak")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", maple)
	q1 := testutil.CreateTestQuestion(t, st, maple, "Q1", "")
	q2 := testutil.CreateTestQuestion(t, st, maple, "Q2", "")
	foreign := testutil.CreateTestQuestion(t, st, oak, "Oak business", "")

	resp, err := engine.CastBatch(voter, []models.BatchVoteEntry{
		{QuestionID: q1.ID, Choice: models.ChoiceAgree},
		{QuestionID: foreign.ID, Choice: models.ChoiceAgree},
		{QuestionID: q2.ID, Choice: "maybe"},
		{QuestionID: 9999, Choice: models.ChoiceAgree},
	})
	if err != nil {
		t.Fatalf("CastBatch() error = %v", err)
	}

	// One rejection does not sink the rest of the batch
	if resp.Accepted != 1 {
		t.Errorf("Expected 1 accepted, got %d", resp.Accepted)
	}
	if len(resp.Rejections) != 3 {
		t.Fatalf("Expected 3 rejections, got %d", len(resp.Rejections))
	}

	reasons := map[int64]string{}
	for _, r := range resp.Rejections {
		reasons[r.QuestionID] = r.Reason
	}
	if reasons[foreign.ID] != ReasonCommunityMismatch {
		t.Errorf("Expected %q for foreign question, got %q", ReasonCommunityMismatch, reasons[foreign.ID])
	}
	if reasons[q2.ID] != ReasonInvalidChoice {
		t.Errorf("Expected %q for bad choice, got %q", ReasonInvalidChoice, reasons[q2.ID])
	}
	if reasons[9999] != ReasonQuestionNotFound {
		t.Errorf("Expected %q for unknown question, got %q", ReasonQuestionNotFound, reasons[9999])
	}

	choices, err := engine.ExistingChoices(voter)
	if err != nil {
		t.Fatalf("ExistingChoices() error = %v", err)
	}
	if choices[q1.ID] != models.ChoiceAgree {
		t.Errorf("Expected accepted vote recorded, got %q", choices[q1.ID])
	}
}

func TestCastBatchVotingClosed(t *testing.T) {
	st := testutil.SetupTestStore(t)
	engine := NewEngine(st)
	commID := testutil.CreateTestCommunity(t, st, "Maple")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", commID)
	q1 := testutil.CreateTestQuestion(t, st, commID, "Q1", "")
	q2 := testutil.CreateTestQuestion(t, st, commID, "Q2", "")

	testutil.SetTestSettings(t, st, false, false)

	resp, err := engine.CastBatch(voter, []models.BatchVoteEntry{
		{QuestionID: q1.ID, Choice: models.ChoiceAgree},
		{QuestionID: q2.ID, Choice: models.ChoiceDisagree},
	})
	if err != nil {
		t.Fatalf("CastBatch() error = %v", err)
	}
	if resp.Accepted != 0 {
		t.Errorf("Expected 0 accepted while voting closed, got %d", resp.Accepted)
	}
	if len(resp.Rejections) != 2 {
		t.Fatalf("Expected 2 rejections, got %d", len(resp.Rejections))
	}
	for _, r := range resp.Rejections {
		if r.Reason != ReasonVotingClosed {
			t.Errorf("Expected reason %q, got %q", ReasonVotingClosed, r.Reason)
		}
	}
}
