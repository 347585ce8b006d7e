// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/danielhkuo/community-ballot/auth"
	"github.com/danielhkuo/community-ballot/models"
	"github.com/danielhkuo/community-ballot/store"
)

// ErrSchema is returned when a batch is missing required columns. The whole
// batch is rejected; there is no partial-column tolerance.
var ErrSchema = errors.New("missing required columns")

var (
	voterColumns    = []string{"name", "email", "community"}
	questionColumns = []string{"community", "title", "description"}
)

// VoterRow is one parsed line of a voter roster.
type VoterRow struct {
	Name      string
	Email     string
	Community string
}

// QuestionRow is one parsed line of a question roster.
type QuestionRow struct {
	Community   string
	Title       string
	Description string
}

// Importer reconciles bulk voter and question lists against existing state.
// Rows commit progressively: a bad row is recorded in the summary and the
// rest of the batch continues.
type Importer struct {
	store *store.Store
}

func NewImporter(st *store.Store) *Importer {
	return &Importer{store: st}
}

// ParseVoterCSV reads a voter roster (columns name, email, community, any
// order, extras ignored). Returns ErrSchema if a required column is absent.
func ParseVoterCSV(r io.Reader) ([]VoterRow, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, voterColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]VoterRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, VoterRow{
			Name:      field(rec, idx["name"]),
			Email:     field(rec, idx["email"]),
			Community: field(rec, idx["community"]),
		})
	}
	return rows, nil
}

// ParseQuestionCSV reads a question roster (columns community, title,
// description). Returns ErrSchema if a required column is absent.
func ParseQuestionCSV(r io.Reader) ([]QuestionRow, error) {
	header, records, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := columnIndex(header, questionColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]QuestionRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, QuestionRow{
			Community:   field(rec, idx["community"]),
			Title:       field(rec, idx["title"]),
			Description: field(rec, idx["description"]),
		})
	}
	return rows, nil
}

// ImportVoters processes voter rows. Per row: create-or-fetch the community,
// then upsert the voter by (email, community). The voter's name always takes
// the imported value. Tokens follow the regenerate policy: a candidate token
// is minted for every row, and the store keeps the existing one unless
// regenerateTokens is set or the voter is new.
func (i *Importer) ImportVoters(rows []VoterRow, regenerateTokens bool) models.ImportSummary {
	summary := models.ImportSummary{Failures: []models.RowFailure{}}

	for n, row := range rows {
		if err := i.importVoter(row, regenerateTokens); err != nil {
			slog.Warn("voter row failed", "row", n+1, "error", err)
			summary.Failures = append(summary.Failures, models.RowFailure{
				Row:    n + 1,
				Reason: err.Error(),
			})
			continue
		}
		summary.Imported++
	}
	return summary
}

func (i *Importer) importVoter(row VoterRow, regenerateTokens bool) error {
	if row.Email == "" {
		return errors.New("email is required")
	}
	if row.Community == "" {
		return errors.New("community is required")
	}

	communityID, err := i.store.EnsureCommunity(row.Community)
	if err != nil {
		return err
	}

	_, err = i.store.UpsertVoter(row.Name, row.Email, communityID, auth.NewVoterToken(), regenerateTokens)
	return err
}

// ImportQuestions processes question rows. Per row: create-or-fetch the
// community, then upsert by (community, title); re-importing an existing
// title overwrites only the description.
func (i *Importer) ImportQuestions(rows []QuestionRow) models.ImportSummary {
	summary := models.ImportSummary{Failures: []models.RowFailure{}}

	for n, row := range rows {
		if err := i.importQuestion(row); err != nil {
			slog.Warn("question row failed", "row", n+1, "error", err)
			summary.Failures = append(summary.Failures, models.RowFailure{
				Row:    n + 1,
				Reason: err.Error(),
			})
			continue
		}
		summary.Imported++
	}
	return summary
}

func (i *Importer) importQuestion(row QuestionRow) error {
	if row.Title == "" {
		return errors.New("title is required")
	}
	if row.Community == "" {
		return errors.New("community is required")
	}

	communityID, err := i.store.EnsureCommunity(row.Community)
	if err != nil {
		return err
	}

	_, err = i.store.UpsertQuestion(communityID, row.Title, row.Description)
	return err
}

// Logins returns the full login roster, community name ascending then voter
// name ascending.
func (i *Importer) Logins() ([]models.RosterEntry, error) {
	return i.store.LoginRoster()
}

// WriteLoginsCSV writes the roster as CSV with a fixed header, for the
// file-download export.
func WriteLoginsCSV(w io.Writer, entries []models.RosterEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"voter_name", "email", "community", "token"}); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.VoterName, e.Email, e.Community, e.Token}); err != nil {
			return fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows become row failures, not parse errors
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrSchema
	}
	return all[0], all[1:], nil
}

// columnIndex maps each required column name to its position in the header.
func columnIndex(header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, col := range header {
		positions[strings.ToLower(strings.TrimSpace(col))] = i
	}

	idx := make(map[string]int, len(required))
	for _, col := range required {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSchema, col)
		}
		idx[col] = pos
	}
	return idx, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
