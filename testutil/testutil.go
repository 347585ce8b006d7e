// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/community-ballot/auth"
	"github.com/danielhkuo/community-ballot/cliparse"
	"github.com/danielhkuo/community-ballot/db"
	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

// SetupTestStore creates a fresh in-memory sqlite database with the full
// schema and settings seed. Each call is an isolated database; the pool is
// capped at one connection so concurrent test writes serialize instead of
// hitting SQLITE_BUSY.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store.New(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3321,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminKey:     "test-admin-key",
	}
}

// CreateTestCommunity creates (or fetches) a community and returns its id
func CreateTestCommunity(t *testing.T, st *store.Store, name string) int64 {
	t.Helper()

	id, err := st.EnsureCommunity(name)
	if err != nil {
		t.Fatalf("Failed to create test community: %v", err)
	}
	return id
}

// CreateTestVoter inserts a voter with a fresh token and returns the row
func CreateTestVoter(t *testing.T, st *store.Store, name, email string, communityID int64) models.Voter {
	t.Helper()

	voter, err := st.UpsertVoter(name, email, communityID, auth.NewVoterToken(), false)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return voter
}

// CreateTestQuestion inserts a question and returns the row
func CreateTestQuestion(t *testing.T, st *store.Store, communityID int64, title, description string) models.Question {
	t.Helper()

	question, err := st.UpsertQuestion(communityID, title, description)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return question
}

// CastTestVote writes a vote row directly through the store
func CastTestVote(t *testing.T, st *store.Store, voterID, questionID int64, choice string) {
	t.Helper()

	if err := st.UpsertVote(voterID, questionID, choice, time.Now()); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// SetTestSettings flips both phase flags
func SetTestSettings(t *testing.T, st *store.Store, votingOpen, resultsOpen bool) {
	t.Helper()

	if err := st.SetSettings(&votingOpen, &resultsOpen); err != nil {
		t.Fatalf("Failed to set test settings: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
