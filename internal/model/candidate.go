package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate validation errors.
var (
	ErrCandidateNoDate    = errors.New("candidate has no date")
	ErrCandidateNoAmount  = errors.New("candidate amount must be positive")
	ErrCandidateDirection = errors.New("candidate direction must be in or out")
)

// ImportCandidate is a transaction-shaped payload produced by ingestion
// (a bulk-import row or an upstream free-text parse), not yet matched or
// staged. It is a closed structure validated at construction time; the
// amount is always stored as a positive value with the flow captured in
// Direction.
type ImportCandidate struct {
	Date        time.Time
	Description string
	Currency    string
	Category    string // optional hint from the source
	Direction   Direction
	Amount      decimal.Decimal
}

// NewImportCandidate builds a validated candidate. The amount must be
// positive, the date must be set, and an empty direction defaults to out.
func NewImportCandidate(date time.Time, description string, amount decimal.Decimal, currency string, direction Direction) (ImportCandidate, error) {
	c := ImportCandidate{
		Date:        date,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Direction:   direction,
	}
	if c.Direction == "" {
		c.Direction = DirectionOut
	}
	if err := c.Validate(); err != nil {
		return ImportCandidate{}, err
	}
	return c, nil
}

// Validate checks the construction-time invariants.
func (c *ImportCandidate) Validate() error {
	if c.Date.IsZero() {
		return ErrCandidateNoDate
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrCandidateNoAmount, c.Amount)
	}
	if c.Direction != DirectionIn && c.Direction != DirectionOut {
		return fmt.Errorf("%w: got %q", ErrCandidateDirection, c.Direction)
	}
	return nil
}
