// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Community Ballot API.

# Handler Types

Each handler is a struct holding the store (and config where needed):

  - SessionHandler: token login
  - VoteHandler: question listing, vote casting (single and batch)
  - ResultsHandler: tallies and voting history
  - AdminHandler: phase flags, roster imports, exports, stats

Handlers are created via constructor functions:

	voteHandler := handlers.NewVoteHandler(st)
	adminHandler := handlers.NewAdminHandler(st, cfg)

# Voter Flow

Voters authenticate with an opaque token:

	POST /session              → Login (token → identity + settings)
	GET  /questions            → ListQuestions (own community, id ascending)
	GET  /votes/mine           → MyChoices (question id → choice)
	POST /questions/{id}/vote  → CastVote
	POST /votes                → CastVotesBatch
	GET  /questions/{id}/tally → GetTally (sealed until results open)
	GET  /votes/history        → GetHistory (always visible to the voter)

Voter operations require the X-Voter-Token header.

# Admin Flow

Admin operations require the X-Admin-Key header:

	GET  /admin/settings         → GetSettings
	PUT  /admin/settings         → UpdateSettings
	POST /admin/import/voters    → ImportVoters (CSV body)
	POST /admin/import/questions → ImportQuestions (CSV body)
	GET  /admin/roster           → GetRoster
	GET  /admin/roster.csv       → GetRosterCSV (download)
	GET  /admin/stats            → GetStats

# Error Mapping

Domain errors map to HTTP statuses: unknown token → 401, unknown question
→ 404, invalid choice / community mismatch / bad CSV schema → 400, voting
closed → 409, results closed → 403, store failure → 500.
*/
package handlers
