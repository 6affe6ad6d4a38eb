package match

import "github.com/shopspring/decimal"

// Config carries the matcher tolerances. Values are explicit rather than
// package-level constants so tests and deployments can override them
// without touching shared state.
type Config struct {
	// DateToleranceDays bounds the ledger window query: candidates are only
	// compared against ledger entries within this many days either side.
	DateToleranceDays int
	// AmountTolerance bounds the ledger window query by amount, in currency
	// units either side of the candidate amount.
	AmountTolerance decimal.Decimal
	// MinMatchScore is the lowest 0-100 score kept in the result list.
	MinMatchScore int
}

// DefaultConfig returns the tolerances tuned for bank-statement noise:
// date +/-2 days, amount +/-1.00, minimum score 60.
func DefaultConfig() Config {
	return Config{
		DateToleranceDays: 2,
		AmountTolerance:   decimal.NewFromInt(1),
		MinMatchScore:     60,
	}
}
