// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/testutil"
)

// TestConcurrentVoteCasts verifies that simultaneous casts from different
// voters don't cause data corruption or duplicate rows
func TestConcurrentVoteCasts(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewVoteHandler(st)

	commID := testutil.CreateTestCommunity(t, st, "Maple")
	question := testutil.CreateTestQuestion(t, st, commID, "Repave the lot?", "")

	numVoters := 10
	voters := make([]models.Voter, numVoters)
	for i := 0; i < numVoters; i++ {
		email := fmt.Sprintf("voter%d@example.com", i)
		voters[i] = testutil.CreateTestVoter(t, st, fmt.Sprintf("Voter %d", i), email, commID)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	id := strconv.FormatInt(question.ID, 10)
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			choice := models.Choices[idx%len(models.Choices)]
			req := testutil.MakeRequest("POST", "/questions/"+id+"/vote",
				models.CastVoteRequest{Choice: choice},
				map[string]string{"X-Voter-Token": voters[idx].Token})
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful casts, got %d", numVoters, successCount.Load())
	}

	// Exactly one row per voter
	var count int
	err := st.DB().QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = $1`, question.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != numVoters {
		t.Errorf("Expected %d vote rows, got %d", numVoters, count)
	}
}

// TestConcurrentRevisionsSameVoter verifies that racing revisions from one
// voter collapse to a single row with one of the submitted choices
func TestConcurrentRevisionsSameVoter(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewVoteHandler(st)

	commID := testutil.CreateTestCommunity(t, st, "Maple")
	voter := testutil.CreateTestVoter(t, st, "Alice", "alice@example.com", commID)
	question := testutil.CreateTestQuestion(t, st, commID, "Repave the lot?", "")

	numCasts := 12
	var wg sync.WaitGroup

	id := strconv.FormatInt(question.ID, 10)
	for i := 0; i < numCasts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			choice := models.Choices[idx%len(models.Choices)]
			req := testutil.MakeRequest("POST", "/questions/"+id+"/vote",
				models.CastVoteRequest{Choice: choice},
				map[string]string{"X-Voter-Token": voter.Token})
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)
		}(i)
	}

	wg.Wait()

	var count int
	var choice string
	err := st.DB().QueryRow(`
		SELECT COUNT(*) FROM vote WHERE voter_id = $1 AND question_id = $2
	`, voter.ID, question.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected exactly 1 vote row after racing revisions, got %d", count)
	}

	err = st.DB().QueryRow(`
		SELECT choice FROM vote WHERE voter_id = $1 AND question_id = $2
	`, voter.ID, question.ID).Scan(&choice)
	if err != nil {
		t.Fatalf("Failed to query choice: %v", err)
	}
	if !models.ValidChoice(choice) {
		t.Errorf("Expected a valid choice to survive the race, got %q", choice)
	}
}

// TestConcurrentBatchAndSettings exercises racing batch casts against an
// admin closing the gate. Every individual outcome must be either a clean
// accept or a clean voting_closed rejection.
func TestConcurrentBatchAndSettings(t *testing.T) {
	st := testutil.SetupTestStore(t)
	voteHandler := NewVoteHandler(st)
	adminHandler := NewAdminHandler(st, testutil.GetTestConfig())

	commID := testutil.CreateTestCommunity(t, st, "Maple")
	q1 := testutil.CreateTestQuestion(t, st, commID, "Q1", "")
	q2 := testutil.CreateTestQuestion(t, st, commID, "Q2", "")

	numVoters := 8
	voters := make([]models.Voter, numVoters)
	for i := 0; i < numVoters; i++ {
		email := fmt.Sprintf("voter%d@example.com", i)
		voters[i] = testutil.CreateTestVoter(t, st, fmt.Sprintf("Voter %d", i), email, commID)
	}

	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/votes", models.BatchVoteRequest{
				Votes: []models.BatchVoteEntry{
					{QuestionID: q1.ID, Choice: models.ChoiceAgree},
					{QuestionID: q2.ID, Choice: models.ChoiceDisagree},
				},
			}, map[string]string{"X-Voter-Token": voters[idx].Token})
			w := httptest.NewRecorder()

			voteHandler.CastVotesBatch(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected batch endpoint to answer 200, got %d", w.Code)
				return
			}

			var resp models.BatchVoteResponse
			testutil.AssertJSON(t, w, &resp)
			for _, r := range resp.Rejections {
				if r.Reason != "voting_closed" {
					t.Errorf("Expected only voting_closed rejections, got %q", r.Reason)
				}
			}
		}(i)
	}

	// Close the gate mid-flight
	wg.Add(1)
	go func() {
		defer wg.Done()

		votingOpen := false
		req := testutil.MakeRequest("PUT", "/admin/settings",
			models.UpdateSettingsRequest{VotingOpen: &votingOpen},
			map[string]string{"X-Admin-Key": "test-admin-key"})
		w := httptest.NewRecorder()

		adminHandler.UpdateSettings(w, req)
	}()

	wg.Wait()

	// No torn writes: every stored choice is valid and at most one row per
	// voter per question
	rows, err := st.DB().Query(`SELECT voter_id, question_id, choice FROM vote`)
	if err != nil {
		t.Fatalf("Failed to query votes: %v", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var voterID, questionID int64
		var choice string
		if err := rows.Scan(&voterID, &questionID, &choice); err != nil {
			t.Fatalf("Failed to scan vote: %v", err)
		}
		if !models.ValidChoice(choice) {
			t.Errorf("Invalid stored choice %q", choice)
		}
		key := fmt.Sprintf("%d/%d", voterID, questionID)
		if seen[key] {
			t.Errorf("Duplicate vote row for %s", key)
		}
		seen[key] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration error: %v", err)
	}
}
