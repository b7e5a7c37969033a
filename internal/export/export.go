// Package export reads and writes the enriched pipe-delimited output file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// Header is the enriched output file header.
const Header = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

const (
	numFields   = 12
	colTxnID    = 0
	colDate     = 1
	colProdID   = 2
	colProdName = 3
	colQuantity = 4
	colPrice    = 5
	colCustID   = 6
	colRegion   = 7
	colCategory = 8
	colBrand    = 9
	colRating   = 10
	colMatch    = 11
)

// Fields containing a literal '|' (repaired product names) are quoted by
// the csv layer on write and unquoted on read.
func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '|'
	return cw
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.FieldsPerRecord = numFields
	return cr
}

// WriteEnriched writes enriched transactions, including the header row.
func WriteEnriched(w io.Writer, rows []model.EnrichedTransaction) error {
	cw := newWriter(w)
	defer cw.Flush()

	if err := cw.Write(headerFields()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalEnriched(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadEnriched reads an enriched output file back, skipping the header row.
func ReadEnriched(r io.Reader) ([]model.EnrichedTransaction, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading enriched file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []model.EnrichedTransaction
	for i, rec := range records[1:] {
		row, err := UnmarshalEnriched(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalEnriched converts an EnrichedTransaction to an output row.
// Absent catalog fields are written blank.
func MarshalEnriched(row model.EnrichedTransaction) []string {
	rec := make([]string, numFields)
	rec[colTxnID] = row.TransactionID
	rec[colDate] = row.Date
	rec[colProdID] = row.ProductID
	rec[colProdName] = row.ProductName
	rec[colQuantity] = strconv.Itoa(row.Quantity)
	rec[colPrice] = row.UnitPrice.String()
	rec[colCustID] = row.CustomerID
	rec[colRegion] = row.Region
	if row.Matched {
		rec[colCategory] = row.Category
		rec[colBrand] = row.Brand
		rec[colRating] = row.Rating.String()
	}
	rec[colMatch] = strconv.FormatBool(row.Matched)
	return rec
}

// UnmarshalEnriched converts an output row back to an EnrichedTransaction.
func UnmarshalEnriched(rec []string) (model.EnrichedTransaction, error) {
	if len(rec) != numFields {
		return model.EnrichedTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	quantity, err := strconv.Atoi(rec[colQuantity])
	if err != nil {
		return model.EnrichedTransaction{}, fmt.Errorf("parsing quantity %q: %w", rec[colQuantity], err)
	}

	price, err := decimal.NewFromString(rec[colPrice])
	if err != nil {
		return model.EnrichedTransaction{}, fmt.Errorf("parsing unit price %q: %w", rec[colPrice], err)
	}

	matched, err := strconv.ParseBool(rec[colMatch])
	if err != nil {
		return model.EnrichedTransaction{}, fmt.Errorf("parsing match flag %q: %w", rec[colMatch], err)
	}

	var rating decimal.Decimal
	if rec[colRating] != "" {
		rating, err = decimal.NewFromString(rec[colRating])
		if err != nil {
			return model.EnrichedTransaction{}, fmt.Errorf("parsing rating %q: %w", rec[colRating], err)
		}
	}

	return model.EnrichedTransaction{
		Transaction: model.Transaction{
			TransactionID: rec[colTxnID],
			Date:          rec[colDate],
			ProductID:     rec[colProdID],
			ProductName:   rec[colProdName],
			Quantity:      quantity,
			UnitPrice:     price,
			CustomerID:    rec[colCustID],
			Region:        rec[colRegion],
		},
		Category: rec[colCategory],
		Brand:    rec[colBrand],
		Rating:   rating,
		Matched:  matched,
	}, nil
}

func headerFields() []string {
	return []string{
		"TransactionID", "Date", "ProductID", "ProductName",
		"Quantity", "UnitPrice", "CustomerID", "Region",
		"API_Category", "API_Brand", "API_Rating", "API_Match",
	}
}
