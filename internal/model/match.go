package model

// MatchResult scores one existing ledger transaction as a probable
// duplicate of an import candidate. Score is on a 0-100 scale; Reasons
// is an ordered list of human-readable justifications shown to reviewers.
type MatchResult struct {
	Transaction LedgerTransaction
	Reasons     []string
	Score       int
}
