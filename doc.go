// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Community Ballot API server.

Community Ballot is a multi-tenant voting service: voters log in with an
opaque token, answer their community's questions (agree / disagree /
no opinion), revise answers while voting is open, and view aggregate
results once an administrator opens them. Voter and question rosters are
bulk-imported from CSV.

# Starting the Server

The server needs an admin key and, optionally, a database:

	ADMIN_KEY=secret go run main.go

Or with flags:

	go run main.go -p 3321 -t sqlite -d vote.db --admin-key secret

# Configuration

Required settings:

  - ADMIN_KEY (--admin-key): Shared secret for admin endpoints

Optional settings:

  - PORT (-p): Server port (default: 3321)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): sqlite file path (default: vote.db) or postgres URL

A .env file in the working directory is loaded at startup.

# Architecture

The server uses a store-backed architecture with dependency injection:

  - store: entity store and token → voter resolution
  - ballot: vote casting/revision engine (gating, validation)
  - tally: aggregation engine (sealed results, voting history)
  - roster: CSV import/export of voters and questions
  - handlers: HTTP request handlers (session, votes, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Token minting and admin key validation
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
