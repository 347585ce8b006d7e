// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot is the vote casting and revision engine.

# Casting

Cast validates and records one choice:

	err := engine.Cast(voter, questionID, models.ChoiceAgree)

Preconditions, checked in order:

 1. voting_open must be true → ErrVotingClosed
 2. choice must be one of the three allowed values → ErrInvalidChoice
 3. the question must belong to the voter's community → ErrCommunityMismatch
    (an unknown question id is store.ErrNotFound)

A successful cast upserts the (voter, question) row: the prior choice is
overwritten and the timestamp refreshed. Casting is idempotent and there is
no lock-in; voters may revise any number of times while voting stays open.

# Batch Casting

CastBatch applies many pairs in one submission. Pairs are independent: a
rejection on one question never blocks the others. The response carries the
accepted count plus per-question rejection reasons (voting_closed,
invalid_choice, community_mismatch, question_not_found, store_error). The
settings snapshot is read once per batch.

# Reading Back

ExistingChoices returns the voter's current answers keyed by question id;
unanswered questions are simply absent from the map.
*/
package ballot
