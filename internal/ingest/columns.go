// Package ingest normalizes heterogeneous bulk-import rows (bank CSV
// exports, OFX statements) into the engine's canonical candidate shape,
// then stages them against the ledger.
package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns aborts a whole import before any row is staged.
var ErrMissingColumns = errors.New("missing required columns")

// ColumnMap holds the discovered header index per canonical field; -1 means
// the column is absent.
type ColumnMap struct {
	Date        int
	Description int
	Amount      int
	Currency    int
	Category    int
}

// Header aliases per canonical field, matched by substring containment on
// lower-cased headers. Bank exports rarely agree on names, and Arabic
// statements use their own.
var (
	dateAliases        = []string{"date", "تاريخ"}
	descriptionAliases = []string{"description", "details", "narration", "merchant", "memo", "وصف", "تفاصيل", "بيان"}
	amountAliases      = []string{"amount", "value", "مبلغ", "قيمة"}
	currencyAliases    = []string{"currency", "عملة"}
	categoryAliases    = []string{"category", "فئة", "تصنيف"}
)

// DiscoverColumns maps a header row to canonical fields. The first header
// containing an alias wins per field. Date, description, and amount are
// required; their absence is a batch-level failure reported once, naming
// every missing field.
func DiscoverColumns(header []string) (ColumnMap, error) {
	cols := ColumnMap{
		Date:        findColumn(header, dateAliases),
		Description: findColumn(header, descriptionAliases),
		Amount:      findColumn(header, amountAliases),
		Currency:    findColumn(header, currencyAliases),
		Category:    findColumn(header, categoryAliases),
	}

	var missing []string
	if cols.Date < 0 {
		missing = append(missing, "date")
	}
	if cols.Description < 0 {
		missing = append(missing, "description")
	}
	if cols.Amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return ColumnMap{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return cols, nil
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		lowered := strings.ToLower(strings.TrimSpace(h))
		for _, alias := range aliases {
			if strings.Contains(lowered, alias) {
				return i
			}
		}
	}
	return -1
}
