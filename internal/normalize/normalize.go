// Package normalize canonicalizes raw merchant/description text so that two
// differently formatted strings for the same merchant compare equal or near
// equal. Bank exports bury the merchant name under POS boilerplate, entity
// suffixes, punctuation, and trailing reference numbers; this package strips
// all of it.
package normalize

import (
	"regexp"
	"strings"
)

// boilerplatePrefixes are bank/POS phrases that carry no merchant
// information when they lead the description. Longer phrases first so
// "pos purchase" wins over a bare "pos".
var boilerplatePrefixes = []string{
	"pos purchase",
	"card purchase",
	"debit card",
	"payment to",
	"withdrawal",
	"online",
	"atm",
	"شراء عبر نقاط البيع",
	"عملية شراء",
	"سحب",
}

// entitySuffixes are business-entity tokens dropped when they trail the
// name, e.g. "Tiktok Ads LLC" and "tiktok ads" should compare equal.
var entitySuffixes = map[string]struct{}{
	"llc":      {},
	"inc":      {},
	"corp":     {},
	"ltd":      {},
	"co":       {},
	"trading":  {},
	"group":    {},
	"store":    {},
	"شركة":     {},
	"مؤسسة":    {},
	"متجر":     {},
	"محل":      {},
	"التجارية": {},
	"المحدودة": {},
}

var (
	// Word characters, whitespace, and the Arabic range survive; everything
	// else becomes a space.
	nonWordRe       = regexp.MustCompile(`[^0-9a-z_\s\p{Arabic}]+`)
	spaceRe         = regexp.MustCompile(`\s+`)
	trailingRefRe   = regexp.MustCompile(`\s*\d+$`)
	trailingPunctRe = regexp.MustCompile(`[\s.,;:!؟?|-]+$`)
)

// Normalize canonicalizes a raw merchant/description string. It is total
// (every input has an output, empty included) and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	// Stripping can expose new boilerplate (a reference number hiding an
	// entity suffix, punctuation hiding a prefix), so run the pass to a
	// fixpoint. Two iterations settle almost every real input.
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	if s == "" {
		return ""
	}

	s = stripPrefixes(s)
	s = stripSuffixes(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = strings.TrimSpace(trailingRefRe.ReplaceAllString(s, ""))

	return s
}

func stripPrefixes(s string) string {
	for {
		stripped := false
		for _, prefix := range boilerplatePrefixes {
			if strings.HasPrefix(s, prefix+" ") {
				s = strings.TrimSpace(s[len(prefix)+1:])
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}

func stripSuffixes(s string) string {
	for {
		trimmed := trailingPunctRe.ReplaceAllString(s, "")
		idx := strings.LastIndexAny(trimmed, " \t")
		if idx < 0 {
			return s
		}
		last := trimmed[idx+1:]
		if _, ok := entitySuffixes[last]; !ok {
			return trimmed
		}
		s = strings.TrimSpace(trimmed[:idx])
	}
}
