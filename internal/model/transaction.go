package model

import "github.com/shopspring/decimal"

// RawLine is a single non-blank, non-header line from the sales file,
// with its 0-based source line number for diagnostics.
type RawLine struct {
	Number int
	Text   string
}

// Transaction represents a parsed sales record. All fields are present and
// type-coerced by the time one is constructed; instances are not mutated
// after parsing.
type Transaction struct {
	TransactionID string
	Date          string // ISO-like, e.g. "2024-12-01"
	ProductID     string // "P" + digits
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	CustomerID    string
	Region        string
}

// Amount returns Quantity × UnitPrice.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}
