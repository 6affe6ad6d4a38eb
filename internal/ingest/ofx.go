package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank-exported OFX files:
// leading blank lines, mixed-case SEVERITY values, and SGML-style tags
// missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	content = openTagRe.ReplaceAllString(content, "$1>")
	return content
}

// ReadOFX parses an OFX/QFX statement export into a batch of candidates.
// OFX is positional rather than columnar, so there is no column discovery;
// a file that fails to parse at all is the batch-level failure.
func ReadOFX(r io.Reader, label string, opts RowOptions) (*Batch, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	batch := &Batch{Label: label}

	currency := opts.HomeCurrency
	if currency == "" {
		currency = DefaultHomeCurrency
	}

	rowNum := 0
	convert := func(txns []ofxgo.Transaction) {
		for _, ofxTx := range txns {
			rowNum++
			candidate, convErr := convertOFXTransaction(ofxTx, currency)
			if convErr != nil {
				batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Err: convErr})
				continue
			}
			batch.Rows = append(batch.Rows, Row{
				Number:    rowNum,
				RawText:   ofxRawText(ofxTx),
				Candidate: candidate,
			})
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			convert(stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			convert(stmt.BankTranList.Transactions)
		}
	}

	return batch, nil
}

// convertOFXTransaction maps one OFX record to a candidate. OFX amounts are
// signed (negative for debits), which beats keyword inference, so the sign
// decides the direction directly.
func convertOFXTransaction(ofxTx ofxgo.Transaction, currency string) (model.ImportCandidate, error) {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)

	direction := model.DirectionIn
	if amount.IsNegative() {
		direction = model.DirectionOut
		amount = amount.Abs()
	}
	if amount.IsZero() {
		return model.ImportCandidate{}, fmt.Errorf("zero amount for OFX transaction %s", ofxTx.FiTID)
	}

	return model.NewImportCandidate(
		ofxTx.DtPosted.Time,
		ofxMerchantName(ofxTx),
		amount,
		currency,
		direction,
	)
}

// ofxMerchantName prefers the PAYEE record, falling back to NAME and then
// MEMO when NAME is blank.
func ofxMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

func ofxRawText(tx ofxgo.Transaction) string {
	parts := []string{
		tx.DtPosted.Time.Format("2006-01-02"),
		ofxMerchantName(tx),
		tx.TrnAmt.String(),
	}
	return strings.Join(parts, ", ")
}
