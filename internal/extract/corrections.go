// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

//go:embed corrections.yaml
var correctionsYAML []byte

// ErrInvalidCorrection is returned when a corrections table fails
// validation.
var ErrInvalidCorrection = errors.New("invalid correction")

// Action is what a correction does to the rows it matches.
type Action string

const (
	ActionDrop              Action = "drop"
	ActionSetAccountingYear Action = "set_accounting_year"
	ActionInsert            Action = "insert"
)

// Match selects assembled rows. All set fields must hold for a row to
// match.
type Match struct {
	// Keys are literal account_row join keys, e.g. "22698_4".
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`

	AccountID      string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Row            int    `json:"row,omitempty" yaml:"row,omitempty"`
	AccountingYear int    `json:"accounting_year,omitempty" yaml:"accounting_year,omitempty"`

	// MissingAccountingYear matches rows whose accounting year could not
	// be read.
	MissingAccountingYear bool `json:"missing_accounting_year,omitempty" yaml:"missing_accounting_year,omitempty"`
}

func (m Match) empty() bool {
	return len(m.Keys) == 0 && m.AccountID == "" && m.Row == 0 &&
		m.AccountingYear == 0 && !m.MissingAccountingYear
}

func (m Match) matches(d draft) bool {
	if len(m.Keys) > 0 && !slices.Contains(m.Keys, d.joinKey()) {
		return false
	}
	if m.AccountID != "" && m.AccountID != d.AccountID {
		return false
	}
	if m.Row != 0 && m.Row != d.row {
		return false
	}
	if m.AccountingYear != 0 && m.AccountingYear != d.AccountingYear {
		return false
	}
	if m.MissingAccountingYear && d.AccountingYear != 0 {
		return false
	}
	return true
}

// Correction repairs a known defect in one questionnaire year's source
// data.
type Correction struct {
	Year   int    `json:"year" yaml:"year"`
	Reason string `json:"reason" yaml:"reason"`
	Action Action `json:"action" yaml:"action"`
	Match  Match  `json:"match,omitempty" yaml:"match,omitempty"`

	// AccountingYear is the value set_accounting_year assigns.
	AccountingYear int `json:"set_accounting_year,omitempty" yaml:"set_accounting_year,omitempty"`

	// Record is the row insert adds.
	Record *types.Record `json:"record,omitempty" yaml:"record,omitempty"`
}

// Validate checks that the correction is complete for its action.
func (c Correction) Validate() error {
	if c.Year == 0 {
		return fmt.Errorf("%w: no questionnaire year", ErrInvalidCorrection)
	}
	if c.Reason == "" {
		return fmt.Errorf("%w: %d %s has no reason", ErrInvalidCorrection, c.Year, c.Action)
	}
	switch c.Action {
	case ActionDrop:
		if c.Match.empty() {
			return fmt.Errorf("%w: %d drop matches every row", ErrInvalidCorrection, c.Year)
		}
	case ActionSetAccountingYear:
		if c.Match.empty() {
			return fmt.Errorf("%w: %d set_accounting_year matches every row", ErrInvalidCorrection, c.Year)
		}
		if c.AccountingYear == 0 {
			return fmt.Errorf("%w: %d set_accounting_year has no year", ErrInvalidCorrection, c.Year)
		}
	case ActionInsert:
		if c.Record == nil {
			return fmt.Errorf("%w: %d insert has no record", ErrInvalidCorrection, c.Year)
		}
		if !c.Record.Valid() {
			return fmt.Errorf("%w: %d insert record lacks account or accounting year", ErrInvalidCorrection, c.Year)
		}
		if (c.Record.CF3 == nil) != (c.Record.CF3Relevance == nil) {
			return fmt.Errorf("%w: %d insert record must set CDP_CF3 and CF3_relevance together", ErrInvalidCorrection, c.Year)
		}
		if v := c.Record.CF3Relevance; v != nil && !(*v >= 0 && *v <= 1) {
			return fmt.Errorf("%w: %d insert record CF3_relevance %v outside [0,1]", ErrInvalidCorrection, c.Year, *v)
		}
	default:
		return fmt.Errorf("%w: %d unknown action %q", ErrInvalidCorrection, c.Year, c.Action)
	}
	return nil
}

// Corrections is an ordered corrections table.
type Corrections []Correction

// ForYear returns the corrections of one questionnaire year in table order.
func (cs Corrections) ForYear(year int) Corrections {
	var out Corrections
	for _, c := range cs {
		if c.Year == year {
			out = append(out, c)
		}
	}
	return out
}

// Years returns the questionnaire years that carry corrections, sorted.
func (cs Corrections) Years() []int {
	var years []int
	for _, c := range cs {
		if !slices.Contains(years, c.Year) {
			years = append(years, c.Year)
		}
	}
	slices.Sort(years)
	return years
}

type correctionsFile struct {
	Corrections Corrections `yaml:"corrections"`
}

// ParseCorrections decodes and validates a YAML corrections table.
func ParseCorrections(data []byte) (Corrections, error) {
	var f correctionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing corrections: %w", err)
	}
	for i, c := range f.Corrections {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("correction %d: %w", i, err)
		}
	}
	return f.Corrections, nil
}

// DefaultCorrections returns the built-in corrections table.
func DefaultCorrections() (Corrections, error) {
	return ParseCorrections(correctionsYAML)
}

// apply runs the corrections against assembled rows in table order.
func (cs Corrections) apply(drafts []draft, log *zap.Logger) []draft {
	for _, c := range cs {
		switch c.Action {
		case ActionDrop:
			before := len(drafts)
			drafts = slices.DeleteFunc(drafts, c.Match.matches)
			c.report(log, before-len(drafts))
		case ActionSetAccountingYear:
			n := 0
			for i := range drafts {
				if c.Match.matches(drafts[i]) {
					drafts[i].AccountingYear = c.AccountingYear
					n++
				}
			}
			c.report(log, n)
		case ActionInsert:
			drafts = append(drafts, draft{Record: *c.Record})
			c.report(log, 1)
		}
	}
	return drafts
}

func (c Correction) report(log *zap.Logger, rows int) {
	if rows == 0 {
		log.Warn("correction matched no rows",
			zap.Int("questionnaire_year", c.Year),
			zap.String("action", string(c.Action)),
			zap.String("reason", c.Reason))
		return
	}
	log.Debug("applied correction",
		zap.Int("questionnaire_year", c.Year),
		zap.String("action", string(c.Action)),
		zap.Int("rows", rows))
}
