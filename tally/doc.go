// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally aggregates votes for the results page.

# Counting

Count returns per-choice totals for one question:

	resp, err := engine.Count(voter, questionID)

Counts are sealed until the administrator opens results; before that every
call returns ErrResultsClosed. The returned map always contains all three
choices - a choice nobody picked appears with count zero, never missing.
The question must belong to the requesting voter's community; anything else
reads as store.ErrNotFound.

# History

History returns the voter's own voting record, newest first:

	entries, err := engine.History(voter)

Self-transparency is not gated: a voter can always see their own record,
even while results are closed.
*/
package tally
