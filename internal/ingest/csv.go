package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

// Row is one successfully parsed data row, keeping the raw text for
// reviewer display.
type Row struct {
	RawText   string
	Candidate model.ImportCandidate
	Number    int // 1-based data row number, header excluded
}

// Batch is the outcome of reading one import source: the parsed rows plus
// the per-row failures. A batch exists only if column discovery succeeded;
// row failures never abort it.
type Batch struct {
	Label     string
	Rows      []Row
	RowErrors []RowError
}

// ReadCSV parses a bank-statement CSV export. The first record is the
// header, read once to establish the column map; a failed discovery aborts
// the whole batch before any row is parsed.
func ReadCSV(r io.Reader, label string, opts RowOptions) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols, err := DiscoverColumns(header)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Label: label}
	rowNum := 0
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		rowNum++
		if readErr != nil {
			batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Err: readErr})
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		candidate, parseErr := ParseRow(record, cols, opts)
		if parseErr != nil {
			batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Err: parseErr})
			continue
		}

		batch.Rows = append(batch.Rows, Row{
			Number:    rowNum,
			RawText:   strings.Join(record, ", "),
			Candidate: candidate,
		})
	}

	return batch, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
