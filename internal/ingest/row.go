package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// DefaultHomeCurrency is assumed when a row carries no currency column.
const DefaultHomeCurrency = "SAR"

// RowOptions configures per-row parsing.
type RowOptions struct {
	// Inferrer decides the flow direction from the description; nil uses
	// the default keyword inferrer.
	Inferrer DirectionInferrer
	// HomeCurrency fills rows without a currency value; empty means
	// DefaultHomeCurrency.
	HomeCurrency string
}

// RowError ties a parse failure to its 1-based data row number. Row errors
// are collected per batch; they never abort the import.
type RowError struct {
	Err error
	Row int
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Unambiguous layouts tried before the day-first fallback. Slash-separated
// numeric dates are deliberately absent: they are regionally ambiguous and
// belong to the day/month/year fallback.
var generalDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})$`)

// Arabic-Indic digits and separators folded to their ASCII equivalents
// before numeric parsing.
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".", "٬", ",",
)

var amountJunkRe = regexp.MustCompile(`[^0-9.,+-]`)

// ParseRow converts a single data row into a validated candidate. Returned
// errors identify the offending value; callers wrap them in a RowError.
func ParseRow(record []string, cols ColumnMap, opts RowOptions) (model.ImportCandidate, error) {
	date, err := ParseDate(cell(record, cols.Date))
	if err != nil {
		return model.ImportCandidate{}, err
	}

	description := strings.TrimSpace(cell(record, cols.Description))

	amount, err := ParseAmount(cell(record, cols.Amount))
	if err != nil {
		return model.ImportCandidate{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(cell(record, cols.Currency)))
	if currency == "" {
		currency = opts.HomeCurrency
	}
	if currency == "" {
		currency = DefaultHomeCurrency
	}

	inferrer := opts.Inferrer
	if inferrer == nil {
		inferrer = defaultInferrer
	}

	candidate, err := model.NewImportCandidate(date, description, amount, currency, inferrer.Infer(description))
	if err != nil {
		return model.ImportCandidate{}, err
	}
	candidate.Category = strings.TrimSpace(cell(record, cols.Category))

	return candidate, nil
}

// ParseDate tries the unambiguous layouts first, then an explicit
// day/month/year pattern so regional dates like "01/02/26" resolve to
// February 1st rather than January 2nd.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(arabicDigits.Replace(raw))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range generalDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes overflow (32/01 becomes 01/02); reject
		// anything that moved.
		if t.Year() == year && int(t.Month()) == month && t.Day() == day {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// ParseAmount strips currency symbols, thousands separators, and localized
// digits, then parses a signed decimal. The sign is dropped: direction is
// inferred separately. Zero is an error — a transaction of nothing is
// always bad data.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := arabicDigits.Replace(strings.TrimSpace(raw))
	s = amountJunkRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")

	// Keep a leading sign only; interior signs are junk from ranges or
	// typos.
	if len(s) > 1 {
		s = s[:1] + strings.NewReplacer("+", "", "-", "").Replace(s[1:])
	}

	if s == "" || s == "-" || s == "+" {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", raw)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", raw)
	}
	if amount.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("zero amount %q", raw)
	}

	return amount.Abs(), nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
