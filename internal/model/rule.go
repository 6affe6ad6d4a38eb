package model

import "time"

// CategoryRule records a reviewer's category correction keyed by the
// normalized merchant keyword, so future categorization can reuse it.
// UseCount tracks how often the rule has been reinforced.
type CategoryRule struct {
	UpdatedAt time.Time
	Scope     string
	Keyword   string
	Category  string
	UseCount  int
}
