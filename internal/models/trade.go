// Package models defines the core data types for the trading journal.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Trade directions.
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// UnknownSetup is the setup label used when a trade has no setup assigned.
const UnknownSetup = "Unknown"

// Trade represents a single logged trading transaction.
type Trade struct {
	ID         string   `json:"id"`
	Ticker     string   `json:"ticker"`
	Entry      float64  `json:"entry"`
	Exit       float64  `json:"exit"`
	Direction  string   `json:"direction"`
	Setup      string   `json:"setup"`
	Notes      string   `json:"notes,omitempty"`
	Tags       []string `json:"tags"`
	Date       Date     `json:"date"`
	AIFeedback string   `json:"ai_feedback,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetupLabel returns the setup label for aggregation, substituting
// UnknownSetup when the trade has no setup assigned.
func (t *Trade) SetupLabel() string {
	if strings.TrimSpace(t.Setup) == "" {
		return UnknownSetup
	}
	return t.Setup
}

// TradePatch is a partial update to a trade. Nil fields are left untouched;
// non-nil fields overwrite. This keeps "field omitted" distinct from "field
// explicitly set".
type TradePatch struct {
	Ticker    *string   `json:"ticker,omitempty"`
	Entry     *float64  `json:"entry,omitempty"`
	Exit      *float64  `json:"exit,omitempty"`
	Direction *string   `json:"direction,omitempty"`
	Setup     *string   `json:"setup,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Date      *Date     `json:"date,omitempty"`
}

// IsEmpty reports whether the patch carries no updatable fields.
func (p *TradePatch) IsEmpty() bool {
	return p.Ticker == nil && p.Entry == nil && p.Exit == nil &&
		p.Direction == nil && p.Setup == nil && p.Notes == nil &&
		p.Tags == nil && p.Date == nil
}

// Apply merges the patch onto a trade, overwriting only supplied fields.
func (p *TradePatch) Apply(t *Trade) {
	if p.Ticker != nil {
		t.Ticker = *p.Ticker
	}
	if p.Entry != nil {
		t.Entry = *p.Entry
	}
	if p.Exit != nil {
		t.Exit = *p.Exit
	}
	if p.Direction != nil {
		t.Direction = strings.ToLower(*p.Direction)
	}
	if p.Setup != nil {
		t.Setup = *p.Setup
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
}

// CoachView is the sanitized projection of a trade handed to the AI coach.
// It carries only domain fields: no ID, no timestamps, no prior feedback,
// so the model never receives internal identifiers.
type CoachView struct {
	Ticker    string
	Entry     float64
	Exit      float64
	Direction string
	Setup     string
	Notes     string
	Tags      []string
	Date      string
}

// NewCoachView builds the coach projection from a persisted trade.
func NewCoachView(t *Trade) CoachView {
	return CoachView{
		Ticker:    t.Ticker,
		Entry:     t.Entry,
		Exit:      t.Exit,
		Direction: t.Direction,
		Setup:     t.Setup,
		Notes:     t.Notes,
		Tags:      t.Tags,
		Date:      t.Date.String(),
	}
}

// DateLayout is the canonical textual form of a trade date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// the canonical YYYY-MM-DD form on both the API and store boundaries.
type Date struct {
	time.Time
}

// NewDate creates a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
