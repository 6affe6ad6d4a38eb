package model

import "time"

// StagingStatus is the lifecycle state of an imported candidate awaiting
// review. Merge is a terminal action that deletes the record rather than
// a fourth status.
type StagingStatus string

const (
	// StagingPending means the record awaits a reviewer decision.
	StagingPending StagingStatus = "pending"
	// StagingApproved means the record produced a new ledger transaction.
	StagingApproved StagingStatus = "approved"
	// StagingRejected means the record was discarded with no ledger effect.
	StagingRejected StagingStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s StagingStatus) Terminal() bool {
	return s == StagingApproved || s == StagingRejected
}

// StagingRecord holds one imported candidate during review. A pending
// record carries at most one candidate ledger match, computed once at
// staging time against the ledger as it was at import.
type StagingRecord struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ID               string
	Scope            string
	RawText          string // original row/display text shown to reviewers
	ImportBatch      string // batch label, typically the source file name
	PotentialMatchID string // ledger id of the best duplicate match, if any
	Status           StagingStatus
	Candidate        ImportCandidate
}

// HasMatch reports whether a probable duplicate was recorded at staging time.
func (r *StagingRecord) HasMatch() bool {
	return r.PotentialMatchID != ""
}
