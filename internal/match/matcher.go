// Package match scores import candidates against a windowed slice of the
// existing ledger to detect probable duplicates before they are staged.
package match

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/normalize"
	"github.com/hsznzas/Rqeeb-sub000/internal/similarity"
)

// Sub-score points on the 0-100 scale.
const (
	dateExactPoints   = 40
	dateAdjacent      = 30
	dateWithinWindow  = 20
	amountExactPoints = 40
	amountVeryClose   = 35
	amountClose       = 25
	amountWithinBand  = 15
	merchantVerySim   = 30
	merchantSimilar   = 20
	merchantWeak      = 10
	merchantContained = 15
	maxScore          = 100
)

var (
	halfUnit = decimal.RequireFromString("0.5")
	oneUnit  = decimal.NewFromInt(1)
)

// Matcher ranks ledger transactions as duplicate candidates. It is pure and
// stateless; callers may share one instance across goroutines.
type Matcher struct {
	cfg Config
}

// New creates a matcher with the given tolerances.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's tolerances, used by callers to build the
// ledger window query.
func (m *Matcher) Config() Config {
	return m.cfg
}

// FindMatches scores the candidate against every transaction in the window
// and returns results at or above MinMatchScore, highest first. The window
// is expected to be pre-filtered by date and amount tolerance (a ledger
// store query); out-of-tolerance entries still score, just poorly.
//
// Ties keep the window's order (stable sort). If the underlying query does
// not guarantee a stable order, tie ranking is not reproducible; this
// matcher does not impose a further tie-break.
func (m *Matcher) FindMatches(candidate model.ImportCandidate, window []model.LedgerTransaction) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(window))

	candDesc := normalize.Normalize(candidate.Description)

	for _, txn := range window {
		score, reasons := m.scorePair(candidate, candDesc, txn)
		if score < m.cfg.MinMatchScore {
			continue
		}
		results = append(results, model.MatchResult{
			Transaction: txn,
			Score:       score,
			Reasons:     reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Best returns the top-ranked result, or nil when the list is empty.
func Best(results []model.MatchResult) *model.MatchResult {
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

func (m *Matcher) scorePair(candidate model.ImportCandidate, candDesc string, txn model.LedgerTransaction) (int, []string) {
	score := 0
	reasons := make([]string, 0, 3)

	// Date proximity.
	dayDelta := daysApart(candidate.Date, txn.Date)
	switch {
	case dayDelta == 0:
		score += dateExactPoints
		reasons = append(reasons, "Same date")
	case dayDelta == 1:
		score += dateAdjacent
		reasons = append(reasons, "1 day apart")
	default:
		score += dateWithinWindow
		reasons = append(reasons, fmt.Sprintf("%d days apart", dayDelta))
	}

	// Amount proximity.
	diff := candidate.Amount.Sub(txn.Amount).Abs()
	switch {
	case diff.IsZero():
		score += amountExactPoints
		reasons = append(reasons, "Exact amount")
	case diff.LessThanOrEqual(halfUnit):
		score += amountVeryClose
		reasons = append(reasons, fmt.Sprintf("Amount differs by %s", diff))
	case diff.LessThanOrEqual(oneUnit):
		score += amountClose
		reasons = append(reasons, fmt.Sprintf("Amount differs by %s", diff))
	default:
		score += amountWithinBand
		reasons = append(reasons, fmt.Sprintf("Amount differs by %s", diff))
	}

	// Description similarity over normalized text. The containment bonus
	// and the very-similar tier are mutually exclusive to avoid double
	// counting near-identical names.
	txnDesc := normalize.Normalize(txn.Merchant)
	sim := similarity.Score(candDesc, txnDesc)
	verySimilar := sim > 0.8
	switch {
	case verySimilar:
		score += merchantVerySim
		reasons = append(reasons, "Very similar merchant")
	case sim > 0.5:
		score += merchantSimilar
		reasons = append(reasons, "Similar merchant")
	case sim > 0.3:
		score += merchantWeak
		reasons = append(reasons, "Somewhat similar merchant")
	}
	if !verySimilar && contained(candDesc, txnDesc) {
		score += merchantContained
		reasons = append(reasons, "Merchant name contained")
	}

	if score > maxScore {
		score = maxScore
	}

	return score, reasons
}

// contained reports whether one non-empty normalized string contains the
// other.
func contained(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// daysApart counts whole calendar days between two dates, ignoring
// time-of-day.
func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	delta := int(ad.Sub(bd).Hours() / 24)
	if delta < 0 {
		delta = -delta
	}
	return delta
}
