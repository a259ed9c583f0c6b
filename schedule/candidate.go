package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// CANDIDATES - Shifts read from a schedule photo, pending review
// =============================================================================

// Candidate is an unreviewed shift. Fields are raw strings so a reviewer can
// fix them before confirming.
type Candidate struct {
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Memo      *string `json:"memo,omitempty"`
	Uncertain bool    `json:"uncertain"`
}

// Extraction is the document a schedule reader produces.
type Extraction struct {
	Schedules []Candidate `json:"schedules"`
	Notes     string      `json:"notes"`
}

// ParseExtraction decodes the JSON object embedded in free text, from the
// first '{' to the last '}'. Surrounding prose and code fences are ignored.
func ParseExtraction(text string) (Extraction, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Extraction{}, ErrNoExtraction
	}

	var x Extraction
	if err := json.Unmarshal([]byte(text[start:end+1]), &x); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrNoExtraction, err)
	}
	return x, nil
}

// Complete reports whether the candidate has a date and both times.
func (c Candidate) Complete() bool {
	return strings.TrimSpace(c.Date) != "" &&
		strings.TrimSpace(c.StartTime) != "" &&
		strings.TrimSpace(c.EndTime) != ""
}

// Confirm turns a reviewed candidate into an entry recorded from an image.
func (c Candidate) Confirm(workplaceID string) (Entry, error) {
	if !c.Complete() {
		return Entry{}, ErrIncompleteCandidate
	}
	shift, err := wage.NewShift(strings.TrimSpace(c.Date), strings.TrimSpace(c.StartTime), strings.TrimSpace(c.EndTime))
	if err != nil {
		return Entry{}, err
	}
	if c.Memo != nil {
		shift.Memo = *c.Memo
	}
	return NewEntry(workplaceID, shift, SourceImage), nil
}

// ConfirmAll confirms every candidate, stopping at the first failure. The
// index of the failing candidate is reported in the error.
func ConfirmAll(workplaceID string, candidates []Candidate) ([]Entry, error) {
	entries := make([]Entry, 0, len(candidates))
	for i, c := range candidates {
		e, err := c.Confirm(workplaceID)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
