// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Community Ballot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg)

# Endpoints

Health:

	GET /health

Voter session:

	POST /session - Resolve token to identity

Voting (requires X-Voter-Token):

	GET  /questions           - Community's questions, id ascending
	GET  /votes/mine          - Current answers by question id
	POST /questions/{id}/vote - Cast/revise one vote
	POST /votes               - Cast a batch of votes

Results (requires X-Voter-Token):

	GET /questions/{id}/tally - Per-choice counts (sealed until open)
	GET /votes/history        - Own record, newest first

Administration (requires X-Admin-Key):

	GET  /admin/settings         - Phase flags
	PUT  /admin/settings         - Update phase flags
	POST /admin/import/voters    - Voter roster CSV
	POST /admin/import/questions - Question roster CSV
	GET  /admin/roster           - Login roster (JSON)
	GET  /admin/roster.csv       - Login roster (CSV download)
	GET  /admin/stats            - Row-count overview

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(st)
	voteHandler := handlers.NewVoteHandler(st)
	resultsHandler := handlers.NewResultsHandler(st)
	adminHandler := handlers.NewAdminHandler(st, cfg)

All handlers receive the store; the admin handler also gets the config for
key validation.
*/
package router
