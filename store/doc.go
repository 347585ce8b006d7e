// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the entity store and identity resolver.

# Construction

Store wraps an open *sql.DB and is passed explicitly to every component:

	st := store.New(conn)
	engine := ballot.NewEngine(st)

# Upsert Contract

Every mutation is a single INSERT ... ON CONFLICT statement against one of
the schema's UNIQUE keys:

  - EnsureCommunity: community.name (insert-or-ignore, then fetch)
  - UpsertVoter: voter.(email, community_id)
  - UpsertQuestion: question.(community_id, title)
  - UpsertVote: vote.(voter_id, question_id)

The database engine serializes conflicting writers, so concurrent upserts
to the same key end with exactly the last writer's full record and no torn
state. Callers never read-modify-write.

# Token Policy

UpsertVoter takes a candidate token plus a regenerate flag. A fresh insert
stores the candidate; a conflicting row keeps its existing token unless
regenerate is set, in which case the candidate replaces it. This is enforced
inside the conflict clause so re-imports cannot race each other into mixed
states.

# Identity Resolution

VoterByToken is the sole authentication primitive:

	voter, err := st.VoterByToken(token)
	if errors.Is(err, store.ErrNotFound) {
		// not authenticated
	}

# Settings

Settings/SetSettings read and write the singleton phase flags. SetSettings
accepts optional pointers; flags supplied together change in one UPDATE.
*/
package store
