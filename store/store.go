// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/community-ballot/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps a database handle with typed queries for the ballot domain.
// All upserts are single INSERT ... ON CONFLICT statements so the UNIQUE
// constraints decide winners under concurrency, never a read-then-write at
// this layer.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for schema setup and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureCommunity creates the community if it does not exist and returns
// its id either way.
func (s *Store) EnsureCommunity(name string) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO community (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert community: %w", err)
	}

	var id int64
	err = s.db.QueryRow(`SELECT id FROM community WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to query community: %w", err)
	}
	return id, nil
}

func (s *Store) CommunityByID(id int64) (models.Community, error) {
	var c models.Community
	err := s.db.QueryRow(`
		SELECT id, name FROM community WHERE id = $1
	`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return models.Community{}, ErrNotFound
	}
	if err != nil {
		return models.Community{}, fmt.Errorf("failed to query community: %w", err)
	}
	return c, nil
}

// UpsertVoter inserts or updates the voter keyed by (email, community).
// Name is always overwritten with the latest value. token is the candidate
// token for this import: on a fresh insert it is stored as-is; on conflict
// the existing token is preserved unless regenerate is set. Returns the row
// as stored.
func (s *Store) UpsertVoter(name, email string, communityID int64, token string, regenerate bool) (models.Voter, error) {
	regen := 0
	if regenerate {
		regen = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO voter (name, email, community_id, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email, community_id) DO UPDATE SET
			name = excluded.name,
			token = CASE WHEN $6 = 1 THEN excluded.token ELSE voter.token END
	`, name, email, communityID, token, time.Now(), regen)
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to upsert voter: %w", err)
	}

	return s.VoterByEmail(email, communityID)
}

func (s *Store) VoterByEmail(email string, communityID int64) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRow(`
		SELECT id, name, email, community_id, token, created_at
		FROM voter
		WHERE email = $1 AND community_id = $2
	`, email, communityID).Scan(&v.ID, &v.Name, &v.Email, &v.CommunityID, &v.Token, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// VoterByToken resolves an opaque token to a voter identity. This is the
// sole authentication primitive; an unknown or empty token is ErrNotFound,
// not an error to retry.
func (s *Store) VoterByToken(token string) (models.Voter, error) {
	if token == "" {
		return models.Voter{}, ErrNotFound
	}

	var v models.Voter
	err := s.db.QueryRow(`
		SELECT id, name, email, community_id, token, created_at
		FROM voter
		WHERE token = $1
	`, token).Scan(&v.ID, &v.Name, &v.Email, &v.CommunityID, &v.Token, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter by token: %w", err)
	}
	return v, nil
}

// UpsertQuestion inserts or updates the question keyed by (community, title).
// On conflict only the description changes; title and community are
// immutable once created, and the id never moves.
func (s *Store) UpsertQuestion(communityID int64, title, description string) (models.Question, error) {
	_, err := s.db.Exec(`
		INSERT INTO question (title, description, community_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, title) DO UPDATE SET
			description = excluded.description
	`, title, description, communityID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to upsert question: %w", err)
	}

	var q models.Question
	err = s.db.QueryRow(`
		SELECT id, title, description, community_id
		FROM question
		WHERE community_id = $1 AND title = $2
	`, communityID, title).Scan(&q.ID, &q.Title, &q.Description, &q.CommunityID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

func (s *Store) QuestionByID(id int64) (models.Question, error) {
	var q models.Question
	err := s.db.QueryRow(`
		SELECT id, title, description, community_id
		FROM question
		WHERE id = $1
	`, id).Scan(&q.ID, &q.Title, &q.Description, &q.CommunityID)
	if err == sql.ErrNoRows {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

// QuestionsByCommunity lists a community's questions in ascending id order.
func (s *Store) QuestionsByCommunity(communityID int64) ([]models.Question, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, community_id
		FROM question
		WHERE community_id = $1
		ORDER BY id ASC
	`, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CommunityID); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpsertVote records the voter's latest choice for the question. Casting
// again overwrites the prior choice and refreshes the timestamp; there is
// never more than one live row per (voter, question).
func (s *Store) UpsertVote(voterID, questionID int64, choice string, ts time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO vote (voter_id, question_id, choice, timestamp)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (voter_id, question_id) DO UPDATE SET
			choice = excluded.choice,
			timestamp = excluded.timestamp
	`, voterID, questionID, choice, ts)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// ChoicesByVoter returns the voter's live choices for their community's
// questions, keyed by question id. Questions without a vote row are simply
// absent from the map.
func (s *Store) ChoicesByVoter(voterID, communityID int64) (map[int64]string, error) {
	rows, err := s.db.Query(`
		SELECT v.question_id, v.choice
		FROM vote v
		JOIN question q ON v.question_id = q.id
		WHERE v.voter_id = $1 AND q.community_id = $2
	`, voterID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := make(map[int64]string)
	for rows.Next() {
		var questionID int64
		var choice string
		if err := rows.Scan(&questionID, &choice); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices[questionID] = choice
	}
	return choices, rows.Err()
}

// CountsByQuestion returns raw per-choice counts for a question. Choices
// with no votes are absent; the tally engine fills in zeros.
func (s *Store) CountsByQuestion(questionID int64) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT choice, COUNT(*)
		FROM vote
		WHERE question_id = $1
		GROUP BY choice
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var choice string
		var n int
		if err := rows.Scan(&choice, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[choice] = n
	}
	return counts, rows.Err()
}

// HistoryByVoter returns the voter's own records within their community,
// most recent first. The vote id breaks timestamp ties so the order is
// deterministic.
func (s *Store) HistoryByVoter(voterID, communityID int64) ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT q.title, v.choice, v.timestamp
		FROM vote v
		JOIN question q ON v.question_id = q.id
		WHERE v.voter_id = $1 AND q.community_id = $2
		ORDER BY v.timestamp DESC, v.id DESC
	`, voterID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var h models.HistoryEntry
		if err := rows.Scan(&h.QuestionTitle, &h.Choice, &h.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// Settings reads the phase-control singleton.
func (s *Store) Settings() (models.Settings, error) {
	var st models.Settings
	err := s.db.QueryRow(`
		SELECT voting_open, results_open FROM settings WHERE id = 1
	`).Scan(&st.VotingOpen, &st.ResultsOpen)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	return st, nil
}

// SetSettings updates the phase flags. A nil pointer leaves that flag
// unchanged; when both are present they change in one statement so no
// reader can observe a half-applied update.
func (s *Store) SetSettings(votingOpen, resultsOpen *bool) error {
	var err error
	switch {
	case votingOpen != nil && resultsOpen != nil:
		_, err = s.db.Exec(`
			UPDATE settings SET voting_open = $1, results_open = $2 WHERE id = 1
		`, *votingOpen, *resultsOpen)
	case votingOpen != nil:
		_, err = s.db.Exec(`
			UPDATE settings SET voting_open = $1 WHERE id = 1
		`, *votingOpen)
	case resultsOpen != nil:
		_, err = s.db.Exec(`
			UPDATE settings SET results_open = $1 WHERE id = 1
		`, *resultsOpen)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// LoginRoster lists every voter with their token, ordered by community name
// then voter name, for the credential-distribution export.
func (s *Store) LoginRoster() ([]models.RosterEntry, error) {
	rows, err := s.db.Query(`
		SELECT v.name, v.email, c.name, v.token
		FROM voter v
		JOIN community c ON v.community_id = c.id
		ORDER BY c.name ASC, v.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query login roster: %w", err)
	}
	defer rows.Close()

	roster := []models.RosterEntry{}
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.VoterName, &e.Email, &e.Community, &e.Token); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}

// Stats returns row counts for the admin overview.
func (s *Store) Stats() (models.Stats, error) {
	var st models.Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM community`, &st.Communities},
		{`SELECT COUNT(*) FROM voter`, &st.Voters},
		{`SELECT COUNT(*) FROM question`, &st.Questions},
		{`SELECT COUNT(*) FROM vote`, &st.Votes},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return models.Stats{}, fmt.Errorf("failed to query stats: %w", err)
		}
	}
	return st, nil
}
