package ingest

import (
	"strings"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// DirectionInferrer decides whether a description looks like income or an
// expense. The keyword heuristic is necessarily incomplete and
// locale-specific, so it is pluggable per deployment; the matching and
// staging core never depends on a particular implementation.
type DirectionInferrer interface {
	Infer(description string) model.Direction
}

// incomeKeywords mark a description as incoming funds. English plus the
// Arabic phrases common in regional bank SMS.
var incomeKeywords = []string{
	"salary",
	"deposit",
	"transfer in",
	"credit",
	"received",
	"refund",
	"cashback",
	"راتب",
	"إيداع",
	"حوالة واردة",
	"استرداد",
	"مرتجع",
}

var defaultInferrer = NewKeywordInferrer()

// KeywordInferrer is the default DirectionInferrer: a case-insensitive scan
// for income-indicating keywords, defaulting to an outgoing expense.
type KeywordInferrer struct {
	keywords []string
}

// NewKeywordInferrer builds the default inferrer, optionally extended with
// deployment-specific keywords.
func NewKeywordInferrer(extra ...string) *KeywordInferrer {
	keywords := make([]string, 0, len(incomeKeywords)+len(extra))
	keywords = append(keywords, incomeKeywords...)
	for _, kw := range extra {
		keywords = append(keywords, strings.ToLower(kw))
	}
	return &KeywordInferrer{keywords: keywords}
}

// Infer returns DirectionIn when any income keyword appears in the
// description, DirectionOut otherwise.
func (k *KeywordInferrer) Infer(description string) model.Direction {
	lowered := strings.ToLower(description)
	for _, kw := range k.keywords {
		if strings.Contains(lowered, kw) {
			return model.DirectionIn
		}
	}
	return model.DirectionOut
}
