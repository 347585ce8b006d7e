// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database engine. dbType is "sqlite" or
// "postgres"; url is a file path for sqlite and a connection string for
// postgres.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "sqlite":
		conn, err := sql.Open("sqlite", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite allows one writer at a time; a single pooled connection
		// avoids SQLITE_BUSY under concurrent upserts.
		conn.SetMaxOpenConns(1)
		return conn, nil
	case "postgres":
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", dbType)
	}
}

// CreateSchema creates all tables needed for the application and seeds the
// settings singleton (voting open, results closed).
// Safe to call multiple times - uses IF NOT EXISTS and ON CONFLICT DO NOTHING.
func CreateSchema(db *sql.DB, dbType string) error {
	schema := schemaSQLite
	if dbType == "postgres" {
		schema = schemaPostgres
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err := db.Exec(`
		INSERT INTO settings (id, voting_open, results_open)
		VALUES (1, TRUE, FALSE)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}

const schemaSQLite = `
-- Communities
CREATE TABLE IF NOT EXISTS community (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    community_id INTEGER NOT NULL REFERENCES community(id),
    token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (email, community_id)
);

CREATE INDEX IF NOT EXISTS idx_voter_token ON voter(token);
CREATE INDEX IF NOT EXISTS idx_voter_community ON voter(community_id);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    community_id INTEGER NOT NULL REFERENCES community(id),
    UNIQUE (community_id, title)
);

CREATE INDEX IF NOT EXISTS idx_question_community ON question(community_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    voter_id INTEGER NOT NULL REFERENCES voter(id),
    question_id INTEGER NOT NULL REFERENCES question(id),
    choice TEXT NOT NULL CHECK (choice IN ('agree', 'disagree', 'no_opinion')),
    timestamp TIMESTAMP NOT NULL,
    UNIQUE (voter_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_question ON vote(question_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id);

-- Settings singleton
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    voting_open BOOLEAN NOT NULL,
    results_open BOOLEAN NOT NULL
);
`

const schemaPostgres = `
-- Communities
CREATE TABLE IF NOT EXISTS community (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    community_id BIGINT NOT NULL REFERENCES community(id),
    token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (email, community_id)
);

CREATE INDEX IF NOT EXISTS idx_voter_token ON voter(token);
CREATE INDEX IF NOT EXISTS idx_voter_community ON voter(community_id);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    community_id BIGINT NOT NULL REFERENCES community(id),
    UNIQUE (community_id, title)
);

CREATE INDEX IF NOT EXISTS idx_question_community ON question(community_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    voter_id BIGINT NOT NULL REFERENCES voter(id),
    question_id BIGINT NOT NULL REFERENCES question(id),
    choice TEXT NOT NULL CHECK (choice IN ('agree', 'disagree', 'no_opinion')),
    timestamp TIMESTAMP NOT NULL,
    UNIQUE (voter_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_question ON vote(question_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id);

-- Settings singleton
CREATE TABLE IF NOT EXISTS settings (
    id BIGINT PRIMARY KEY CHECK (id = 1),
    voting_open BOOLEAN NOT NULL,
    results_open BOOLEAN NOT NULL
);
`
