// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster imports voter and question lists and exports the login roster.

# CSV Parsing

Rosters arrive as CSV. ParseVoterCSV requires columns name, email, community;
ParseQuestionCSV requires community, title, description. Column order does
not matter and extra columns are ignored, but a missing required column
rejects the whole batch with ErrSchema.

# Voter Import

Per row: the community is created on first reference, then the voter is
upserted by (email, community). Name always takes the imported value.
Token policy:

  - regenerateTokens=false: an existing voter keeps their token; a new
    voter gets a freshly minted one
  - regenerateTokens=true: every imported voter gets a fresh token

The same email may appear under different communities - those are distinct
voters with distinct tokens.

# Question Import

Per row: create-or-fetch the community, upsert by (community, title).
Re-importing an existing title overwrites only the description; the
question id, title, and community never change.

# Row Failures

Import commits row by row. A malformed row (missing email, missing title)
is recorded in the returned ImportSummary and the batch continues; rows
already processed stay committed. The UNIQUE-keyed upserts make re-running
an import safe - no duplicates, no lost history.

# Export

Logins returns every voter with their token ordered by community then
name; WriteLoginsCSV renders it for download.
*/
package roster
