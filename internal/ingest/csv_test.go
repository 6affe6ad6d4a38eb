package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsznzas/Rqeeb-sub000/internal/model"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount,Category",
		"2026-01-05,POS PURCHASE STARBUCKS,18.50,Coffee",
		"06/01/2026,Salary deposit,\"5,000.00\",",
		"2026-01-07,CAREEM RIDE,31.00,Transport",
	}, "\n")

	batch, err := ReadCSV(strings.NewReader(input), "statement-jan.csv", RowOptions{})
	require.NoError(t, err)

	assert.Equal(t, "statement-jan.csv", batch.Label)
	assert.Empty(t, batch.RowErrors)
	require.Len(t, batch.Rows, 3)

	assert.Equal(t, 1, batch.Rows[0].Number)
	assert.Equal(t, "POS PURCHASE STARBUCKS", batch.Rows[0].Candidate.Description)
	assert.Equal(t, model.DirectionOut, batch.Rows[0].Candidate.Direction)

	salary := batch.Rows[1].Candidate
	assert.Equal(t, model.DirectionIn, salary.Direction)
	assert.Equal(t, "5000", salary.Amount.String())
	assert.Equal(t, 6, salary.Date.Day())
	assert.Equal(t, 1, int(salary.Date.Month()))
}

func TestReadCSVCollectsRowErrors(t *testing.T) {
	// Ten data rows; row 5 has an unparseable amount. The batch still
	// succeeds with nine rows and exactly one error naming row 5.
	lines := []string{"Date,Description,Amount"}
	for i := 1; i <= 10; i++ {
		amount := "10.00"
		if i == 5 {
			amount = "N/A"
		}
		lines = append(lines, fmt.Sprintf("2026-01-%02d,Merchant,%s", i, amount))
	}

	batch, err := ReadCSV(strings.NewReader(strings.Join(lines, "\n")), "b.csv", RowOptions{})
	require.NoError(t, err)

	assert.Len(t, batch.Rows, 9)
	require.Len(t, batch.RowErrors, 1)
	assert.Equal(t, 5, batch.RowErrors[0].Row)
	assert.Contains(t, batch.RowErrors[0].Error(), "N/A")
}

func TestReadCSVColumnDiscoveryFailureAbortsBatch(t *testing.T) {
	input := "Foo,Bar\n2026-01-05,10.00\n"

	_, err := ReadCSV(strings.NewReader(input), "b.csv", RowOptions{})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadCSVSkipsBlankLines(t *testing.T) {
	input := "Date,Description,Amount\n2026-01-05,Shop,10.00\n,,\n"

	batch, err := ReadCSV(strings.NewReader(input), "b.csv", RowOptions{})
	require.NoError(t, err)
	assert.Len(t, batch.Rows, 1)
	assert.Empty(t, batch.RowErrors)
}

func TestReadCSVArabicStatement(t *testing.T) {
	input := strings.Join([]string{
		"التاريخ,البيان,المبلغ,العملة",
		"15/03/2026,عملية شراء مطعم البيك,٤٥٫٥٠,SAR",
		"16/03/2026,إيداع راتب,5000,SAR",
	}, "\n")

	batch, err := ReadCSV(strings.NewReader(input), "arabic.csv", RowOptions{})
	require.NoError(t, err)
	require.Len(t, batch.Rows, 2)

	assert.Equal(t, "45.50", batch.Rows[0].Candidate.Amount.StringFixed(2))
	assert.Equal(t, model.DirectionOut, batch.Rows[0].Candidate.Direction)
	assert.Equal(t, model.DirectionIn, batch.Rows[1].Candidate.Direction)
}
