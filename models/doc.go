// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SessionRequest: token
  - CastVoteRequest: choice
  - BatchVoteRequest: votes ([]BatchVoteEntry)
  - UpdateSettingsRequest: voting_open, results_open (both optional)

# Response Types

Types for JSON responses:

  - SessionResponse: voter, community, settings
  - CastVoteResponse: question_id, choice, message
  - BatchVoteResponse: accepted, rejections
  - TallyResponse: question_id, title, counts
  - ImportSummary: imported, failures
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Community: tenant scope for voters and questions
  - Voter: identified by an opaque token; token is never serialized
  - Question: belongs to one community; unique (community, title)
  - Vote: one live row per (voter, question); latest choice only
  - Settings: global voting_open / results_open flags (singleton)
  - HistoryEntry: one line of a voter's own record
  - RosterEntry: one line of the exported login roster (includes token)

# Constants

Choice values:

	ChoiceAgree     = "agree"
	ChoiceDisagree  = "disagree"
	ChoiceNoOpinion = "no_opinion"

Choices holds all three in display order; ValidChoice checks membership.
*/
package models
