// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Ballot choice constants. Every vote row holds exactly one of these.
const (
	ChoiceAgree     = "agree"
	ChoiceDisagree  = "disagree"
	ChoiceNoOpinion = "no_opinion"
)

// Choices lists all valid choices in display order. Tally responses carry
// every entry, including those with zero votes.
var Choices = []string{ChoiceAgree, ChoiceDisagree, ChoiceNoOpinion}

// ValidChoice reports whether s is one of the three allowed choices.
func ValidChoice(s string) bool {
	return s == ChoiceAgree || s == ChoiceDisagree || s == ChoiceNoOpinion
}

// Request types

type SessionRequest struct {
	Token string `json:"token"`
}

type CastVoteRequest struct {
	Choice string `json:"choice"`
}

type BatchVoteEntry struct {
	QuestionID int64  `json:"question_id"`
	Choice     string `json:"choice"`
}

type BatchVoteRequest struct {
	Votes []BatchVoteEntry `json:"votes"`
}

type UpdateSettingsRequest struct {
	VotingOpen  *bool `json:"voting_open"`
	ResultsOpen *bool `json:"results_open"`
}

// Response types

type SessionResponse struct {
	Voter     Voter    `json:"voter"`
	Community string   `json:"community"`
	Settings  Settings `json:"settings"`
}

type CastVoteResponse struct {
	QuestionID int64  `json:"question_id"`
	Choice     string `json:"choice"`
	Message    string `json:"message"`
}

type VoteRejection struct {
	QuestionID int64  `json:"question_id"`
	Reason     string `json:"reason"`
}

type BatchVoteResponse struct {
	Accepted   int             `json:"accepted"`
	Rejections []VoteRejection `json:"rejections"`
}

type TallyResponse struct {
	QuestionID int64          `json:"question_id"`
	Title      string         `json:"title"`
	Counts     map[string]int `json:"counts"`
}

type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportSummary struct {
	Imported int          `json:"imported"`
	Failures []RowFailure `json:"failures"`
}

// Domain types

type Community struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Voter struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CommunityID int64     `json:"community_id"`
	Token       string    `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CommunityID int64  `json:"community_id"`
}

type Vote struct {
	ID         int64     `json:"id"`
	VoterID    int64     `json:"voter_id"`
	QuestionID int64     `json:"question_id"`
	Choice     string    `json:"choice"`
	Timestamp  time.Time `json:"timestamp"`
}

// Settings is the global phase-control singleton. Exactly one row exists.
type Settings struct {
	VotingOpen  bool `json:"voting_open"`
	ResultsOpen bool `json:"results_open"`
}

type HistoryEntry struct {
	QuestionTitle string    `json:"question_title"`
	Choice        string    `json:"choice"`
	Timestamp     time.Time `json:"timestamp"`
}

// RosterEntry is one line of the exported login roster. This is the one
// place a token is intentionally exposed; the export feeds the credential
// distribution step.
type RosterEntry struct {
	VoterName string `json:"voter_name"`
	Email     string `json:"email"`
	Community string `json:"community"`
	Token     string `json:"token"`
}

type Stats struct {
	Communities int `json:"communities"`
	Voters      int `json:"voters"`
	Questions   int `json:"questions"`
	Votes       int `json:"votes"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
