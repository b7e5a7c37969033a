package validate

import (
	"github.com/shopspring/decimal"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// Reason is a business-rule violation code.
type Reason string

const (
	ReasonNonPositiveQuantity Reason = "non-positive quantity"
	ReasonNonPositivePrice    Reason = "non-positive unit price"
	ReasonMissingField        Reason = "missing required field"
	ReasonBadTransactionID    Reason = `transaction ID must start with "T"`
	ReasonBadProductID        Reason = `product ID must start with "P"`
	ReasonBadCustomerID       Reason = `customer ID must start with "C"`
)

// Invalid is a transaction that failed validation, with every violated rule.
type Invalid struct {
	Txn     model.Transaction
	Reasons []Reason
}

// Result is the two-way partition of parsed transactions.
type Result struct {
	Valid   []model.Transaction
	Invalid []Invalid
}

// Check evaluates all business rules against a transaction and returns every
// violation. An empty result means the transaction is valid.
func Check(t model.Transaction) []Reason {
	var reasons []Reason

	if t.Quantity <= 0 {
		reasons = append(reasons, ReasonNonPositiveQuantity)
	}
	if !t.UnitPrice.IsPositive() {
		reasons = append(reasons, ReasonNonPositivePrice)
	}

	required := []string{t.TransactionID, t.Date, t.ProductID, t.ProductName, t.CustomerID, t.Region}
	for _, v := range required {
		if v == "" {
			reasons = append(reasons, ReasonMissingField)
			break
		}
	}

	if t.TransactionID != "" && t.TransactionID[0] != 'T' {
		reasons = append(reasons, ReasonBadTransactionID)
	}
	if t.ProductID != "" && t.ProductID[0] != 'P' {
		reasons = append(reasons, ReasonBadProductID)
	}
	if t.CustomerID != "" && t.CustomerID[0] != 'C' {
		reasons = append(reasons, ReasonBadCustomerID)
	}

	return reasons
}

// Partition splits transactions into valid and invalid sets. Invalid
// transactions are retained with their reasons; they are excluded from
// analytics and enrichment but still counted.
func Partition(txns []model.Transaction) Result {
	var res Result
	for _, t := range txns {
		if reasons := Check(t); len(reasons) > 0 {
			res.Invalid = append(res.Invalid, Invalid{Txn: t, Reasons: reasons})
			continue
		}
		res.Valid = append(res.Valid, t)
	}
	return res
}

// ReasonCounts returns how many invalid transactions violated each rule.
func (r Result) ReasonCounts() map[Reason]int {
	counts := make(map[Reason]int)
	for _, inv := range r.Invalid {
		for _, reason := range inv.Reasons {
			counts[reason]++
		}
	}
	return counts
}

// FilterRegion returns the transactions whose Region exactly equals region
// (case-sensitive). The input slice is not modified.
func FilterRegion(txns []model.Transaction, region string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Region == region {
			out = append(out, t)
		}
	}
	return out
}

// FilterAmount returns the transactions whose amount (Quantity × UnitPrice)
// lies within the inclusive [min, max] range. A nil bound is open. The input
// slice is not modified.
func FilterAmount(txns []model.Transaction, min, max *decimal.Decimal) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		amount := t.Amount()
		if min != nil && amount.LessThan(*min) {
			continue
		}
		if max != nil && amount.GreaterThan(*max) {
			continue
		}
		out = append(out, t)
	}
	return out
}
