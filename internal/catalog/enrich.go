package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// ProductKey extracts the numeric catalog key from a ProductID:
// "P101" -> 101. A leading P (either case) is stripped and any remaining
// non-digit characters are ignored.
func ProductKey(productID string) (int, error) {
	s := strings.TrimSpace(productID)
	if len(s) > 0 && (s[0] == 'P' || s[0] == 'p') {
		s = s[1:]
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, fmt.Errorf("no numeric key in product ID %q", productID)
	}

	key, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("parsing product key from %q: %w", productID, err)
	}
	return key, nil
}

// Enrich joins each transaction to catalog data by its numeric product key.
// Unmatched or unkeyable products get zero catalog fields and Matched=false;
// no transaction is ever dropped. A nil mapping (catalog unavailable) leaves
// every transaction unmatched. The input slice is not modified.
func Enrich(txns []model.Transaction, mapping map[int]model.CatalogProduct) []model.EnrichedTransaction {
	enriched := make([]model.EnrichedTransaction, 0, len(txns))
	for _, t := range txns {
		row := model.EnrichedTransaction{Transaction: t}

		key, err := ProductKey(t.ProductID)
		if err == nil {
			if p, ok := mapping[key]; ok {
				row.Category = p.Category
				row.Brand = p.Brand
				row.Rating = p.Rating
				row.Matched = true
			}
		}
		enriched = append(enriched, row)
	}
	return enriched
}
