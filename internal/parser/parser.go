package parser

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/salespipe-dev/salespipe/internal/model"
	"github.com/salespipe-dev/salespipe/internal/repair"
)

// SkipDiagnostic records why a source line was dropped as malformed.
type SkipDiagnostic struct {
	Line   int // 0-based source line number
	Reason string
}

func (d SkipDiagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Reason)
}

// ParseLine repairs and coerces one raw line into a Transaction. On failure
// it returns a diagnostic instead; such rows never reach validation.
func ParseLine(raw model.RawLine) (model.Transaction, *SkipDiagnostic) {
	fields, err := repair.Repair(raw.Text)
	if err != nil {
		return model.Transaction{}, &SkipDiagnostic{Line: raw.Number, Reason: err.Error()}
	}

	quantity, err := strconv.Atoi(fields[repair.ColQuantity])
	if err != nil {
		return model.Transaction{}, &SkipDiagnostic{
			Line:   raw.Number,
			Reason: fmt.Sprintf("parsing quantity %q: not an integer", fields[repair.ColQuantity]),
		}
	}

	unitPrice, err := decimal.NewFromString(fields[repair.ColUnitPrice])
	if err != nil {
		return model.Transaction{}, &SkipDiagnostic{
			Line:   raw.Number,
			Reason: fmt.Sprintf("parsing unit price %q: not a number", fields[repair.ColUnitPrice]),
		}
	}

	return model.Transaction{
		TransactionID: fields[repair.ColTransactionID],
		Date:          fields[repair.ColDate],
		ProductID:     fields[repair.ColProductID],
		ProductName:   fields[repair.ColProductName],
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    fields[repair.ColCustomerID],
		Region:        fields[repair.ColRegion],
	}, nil
}

// ParseAll parses every raw line, collecting malformed-row diagnostics.
// Row-level failures never abort the run.
func ParseAll(lines []model.RawLine) ([]model.Transaction, []SkipDiagnostic) {
	var txns []model.Transaction
	var skipped []SkipDiagnostic
	for _, raw := range lines {
		txn, diag := ParseLine(raw)
		if diag != nil {
			skipped = append(skipped, *diag)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, skipped
}
