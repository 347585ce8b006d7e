// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3321)
  - DatabaseURL: sqlite file path or PostgreSQL connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKey: Shared secret for admin endpoints (required)

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	--admin-key Admin key

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	ADMIN_KEY     → --admin-key

CLI flags take precedence over environment variables. main loads a .env
file first (godotenv), so deployments can keep secrets out of the shell.

# Validation

ParseFlags returns an error if required values are missing:

  - ADMIN_KEY must be provided
  - DATABASE_URL must be provided for postgres (sqlite defaults to vote.db)
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
