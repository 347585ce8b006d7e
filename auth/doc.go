// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token minting and admin key validation.

# Voter Tokens

Voter tokens are random UUIDv4s encoded as 32 hex characters:

	token := auth.NewVoterToken()

A token is the voter's sole credential. It is opaque (no embedded voter
identity) and collision probability is negligible at any realistic roster
size. The roster importer decides when to mint versus preserve tokens.

# Admin Keys

The admin key is a single configured secret (ADMIN_KEY). Validation is a
constant-time comparison:

	if err := auth.ValidateAdminKey(presented, cfg.AdminKey); err != nil {
		// reject
	}

An empty configured key rejects everything; there is no unauthenticated
admin mode.
*/
package auth
