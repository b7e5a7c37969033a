// Package repair normalizes a raw pipe-delimited sales line into the fixed
// 8-column schema before structural parsing. It is purely line-local: no
// other lines and no external state are consulted.
package repair

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NumFields is the canonical column count of the sales schema.
const NumFields = 8

// Column positions within a repaired line.
const (
	ColTransactionID = 0
	ColDate          = 1
	ColProductID     = 2
	ColProductName   = 3
	ColQuantity      = 4
	ColUnitPrice     = 5
	ColCustomerID    = 6
	ColRegion        = 7
)

// ErrUnrepairable means a line cannot be recovered to NumFields columns.
// Such rows are counted as malformed, distinct from validation failures.
var ErrUnrepairable = errors.New("cannot repair line to 8 fields")

// Repair splits a raw line on '|' and recovers exactly NumFields fields.
//
// When the split yields more than NumFields parts, the surplus is assumed to
// come from stray pipes inside ProductName: the three leading fields
// (TransactionID, Date, ProductID) and four trailing fields (Quantity,
// UnitPrice, CustomerID, Region) are positional anchors, and everything
// between them is re-joined into a single ProductName. Embedded commas in
// ProductName are kept verbatim.
//
// Commas in the Quantity and UnitPrice positions are stripped only when the
// stripped token parses as a number (thousands separators like "45,000");
// otherwise the token is left alone so coercion fails with an honest
// diagnostic downstream.
func Repair(line string) ([]string, error) {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var fields []string
	switch {
	case len(parts) == NumFields:
		fields = parts
	case len(parts) > NumFields:
		fields = make([]string, NumFields)
		copy(fields, parts[:ColProductName])
		fields[ColProductName] = strings.TrimSpace(strings.Join(parts[ColProductName:len(parts)-4], "|"))
		copy(fields[ColQuantity:], parts[len(parts)-4:])
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnrepairable, len(parts))
	}

	fields[ColQuantity] = stripNumericCommas(fields[ColQuantity])
	fields[ColUnitPrice] = stripNumericCommas(fields[ColUnitPrice])
	return fields, nil
}

func stripNumericCommas(token string) string {
	if !strings.Contains(token, ",") {
		return token
	}
	stripped := strings.ReplaceAll(token, ",", "")
	if _, err := decimal.NewFromString(stripped); err != nil {
		return token
	}
	return stripped
}
