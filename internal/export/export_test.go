package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespipe-dev/salespipe/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleRows() []model.EnrichedTransaction {
	return []model.EnrichedTransaction{
		{
			Transaction: model.Transaction{
				TransactionID: "T001",
				Date:          "2024-01-01",
				ProductID:     "P1",
				ProductName:   "Wireless, Mouse",
				Quantity:      5,
				UnitPrice:     dec("25.50"),
				CustomerID:    "C001",
				Region:        "North",
			},
			Category: "peripherals",
			Brand:    "Logi",
			Rating:   dec("4.2"),
			Matched:  true,
		},
		{
			Transaction: model.Transaction{
				TransactionID: "T002",
				Date:          "2024-01-02",
				ProductID:     "P99",
				ProductName:   "USB|C Cable",
				Quantity:      2,
				UnitPrice:     dec("1200"),
				CustomerID:    "C002",
				Region:        "South",
			},
			Matched: false,
		},
	}
}

func TestRoundTrip(t *testing.T) {
	rows := sampleRows()

	var buf bytes.Buffer
	require.NoError(t, WriteEnriched(&buf, rows))

	assert.True(t, strings.HasPrefix(buf.String(), "TransactionID|Date|"))

	got, err := ReadEnriched(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range rows {
		assert.Equal(t, rows[i].TransactionID, got[i].TransactionID)
		assert.Equal(t, rows[i].Date, got[i].Date)
		assert.Equal(t, rows[i].ProductID, got[i].ProductID)
		assert.Equal(t, rows[i].ProductName, got[i].ProductName)
		assert.Equal(t, rows[i].Quantity, got[i].Quantity)
		assert.True(t, rows[i].UnitPrice.Equal(got[i].UnitPrice))
		assert.Equal(t, rows[i].CustomerID, got[i].CustomerID)
		assert.Equal(t, rows[i].Region, got[i].Region)
		assert.Equal(t, rows[i].Matched, got[i].Matched)
	}

	assert.Equal(t, "peripherals", got[0].Category)
	assert.True(t, got[0].Rating.Equal(dec("4.2")))
}

func TestUnmatchedRowHasBlankCatalogFields(t *testing.T) {
	rec := MarshalEnriched(sampleRows()[1])
	assert.Equal(t, "", rec[colCategory])
	assert.Equal(t, "", rec[colBrand])
	assert.Equal(t, "", rec[colRating])
	assert.Equal(t, "false", rec[colMatch])
}

func TestMarshalQuotesEmbeddedDelimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEnriched(&buf, sampleRows()[1:]))

	// The product name containing '|' is quoted so the row still has 12
	// fields on read.
	assert.Contains(t, buf.String(), `"USB|C Cable"`)
}

func TestReadEnrichedEmpty(t *testing.T) {
	rows, err := ReadEnriched(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUnmarshalBadFieldCount(t *testing.T) {
	_, err := UnmarshalEnriched([]string{"T001", "2024-01-01"})
	require.Error(t, err)
}
