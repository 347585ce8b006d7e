// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening a Connection

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported engines are sqlite (modernc.org/sqlite, CGO-free, the default)
and postgres (lib/pq). For sqlite the pool is capped at one connection so
concurrent upserts serialize instead of failing with SQLITE_BUSY.

# Schema Creation

CreateSchema initializes all required tables and seeds the settings row:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for tables and indexes and
ON CONFLICT DO NOTHING for the settings seed.

# Tables

The schema includes:

  - community: tenant scopes, globally unique name
  - voter: one row per (email, community), globally unique token
  - question: one row per (community, title)
  - vote: one live row per (voter, question)
  - settings: singleton phase flags (id fixed to 1)

# Uniqueness Constraints

The UNIQUE constraints are the correctness mechanism for all upserts:

  - community.name
  - voter.token
  - voter.(email, community_id)
  - question.(community_id, title)
  - vote.(voter_id, question_id)

Every write path funnels through INSERT ... ON CONFLICT against one of
these keys, so a concurrent duplicate insert can never create two rows.
*/
package db
