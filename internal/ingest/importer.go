package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/hsznzas/Rqeeb-sub000/internal/match"
	"github.com/hsznzas/Rqeeb-sub000/internal/model"
	"github.com/hsznzas/Rqeeb-sub000/internal/service"
	"github.com/hsznzas/Rqeeb-sub000/internal/staging"
)

// Importer wires a parsed batch through matching and staging: each row gets
// a windowed ledger query, duplicate scoring, and a pending staging record.
// Rows commit independently; a host may cancel between rows but must not
// expect completed rows to roll back.
type Importer struct {
	ledger  service.LedgerStore
	stager  *staging.Manager
	matcher *match.Matcher

	// OnRow, when set, is called after each processed row with the current
	// index and row total (progress reporting).
	OnRow func(current, total int)
}

// Report is the user-visible outcome of one batch: how many rows were
// staged and every per-row failure, never a single opaque error for a
// partially successful import.
type Report struct {
	BatchLabel   string
	RowErrors    []RowError
	StagedCount  int
	MatchedCount int
}

// NewImporter creates an importer over the given ledger store, lifecycle
// manager, and matcher.
func NewImporter(ledger service.LedgerStore, stager *staging.Manager, matcher *match.Matcher) *Importer {
	return &Importer{
		ledger:  ledger,
		stager:  stager,
		matcher: matcher,
	}
}

// ImportBatch stages every parsed row of the batch for the given scope.
// The ledger window is bounded by the matcher tolerances so the store is
// never scanned in full. Row-level failures (window query or staging write)
// join the batch's parse errors in the report.
func (im *Importer) ImportBatch(ctx context.Context, scope string, batch *Batch) (*Report, error) {
	if batch == nil {
		return nil, fmt.Errorf("nil batch")
	}

	report := &Report{
		BatchLabel: batch.Label,
		RowErrors:  append([]RowError(nil), batch.RowErrors...),
	}

	total := len(batch.Rows)
	for i, row := range batch.Rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		best, err := im.findBest(ctx, scope, row.Candidate)
		if err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: row.Number, Err: err})
			continue
		}

		if _, err := im.stager.Stage(ctx, scope, row.RawText, row.Candidate, best, batch.Label); err != nil {
			report.RowErrors = append(report.RowErrors, RowError{Row: row.Number, Err: err})
			continue
		}

		report.StagedCount++
		if best != nil {
			report.MatchedCount++
		}
		if im.OnRow != nil {
			im.OnRow(i+1, total)
		}
	}

	return report, nil
}

func (im *Importer) findBest(ctx context.Context, scope string, candidate model.ImportCandidate) (*model.MatchResult, error) {
	window, err := im.ledger.QueryWindow(ctx, WindowFor(scope, candidate, im.matcher.Config()))
	if err != nil {
		return nil, fmt.Errorf("ledger window query: %w", err)
	}

	return match.Best(im.matcher.FindMatches(candidate, window)), nil
}

// WindowFor derives the pre-filtered ledger query bounds for a candidate
// from the matcher tolerances: full calendar days either side of the
// candidate date, and the amount band around its amount.
func WindowFor(scope string, candidate model.ImportCandidate, cfg match.Config) service.Window {
	day := time.Date(
		candidate.Date.Year(), candidate.Date.Month(), candidate.Date.Day(),
		0, 0, 0, 0, time.UTC,
	)

	return service.Window{
		Scope:     scope,
		DateFrom:  day.AddDate(0, 0, -cfg.DateToleranceDays),
		DateTo:    day.AddDate(0, 0, cfg.DateToleranceDays+1).Add(-time.Nanosecond),
		AmountMin: candidate.Amount.Sub(cfg.AmountTolerance),
		AmountMax: candidate.Amount.Add(cfg.AmountTolerance),
	}
}
