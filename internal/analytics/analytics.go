// Package analytics computes descriptive aggregates over the valid
// transaction set. All money math uses decimals.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/salespipe-dev/salespipe/internal/model"
)

// RegionStat summarizes sales for one region.
type RegionStat struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	Percentage       decimal.Decimal // share of grand total, 2 decimal places
}

// ProductStat summarizes sales for one product name.
type ProductStat struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// CustomerStat summarizes purchases for one customer.
type CustomerStat struct {
	CustomerID    string
	TotalSpent    decimal.Decimal
	PurchaseCount int
	AvgOrderValue decimal.Decimal
	Products      []string // unique product names, in first-seen order
}

// DayStat summarizes sales for one date.
type DayStat struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// TotalRevenue sums Quantity × UnitPrice over all transactions.
func TotalRevenue(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount())
	}
	return total
}

// RegionStats aggregates sales per region, sorted by total sales descending
// (region name ascending on ties).
func RegionStats(txns []model.Transaction) []RegionStat {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	grand := decimal.Zero

	for _, t := range txns {
		amount := t.Amount()
		grand = grand.Add(amount)
		totals[t.Region] = totals[t.Region].Add(amount)
		counts[t.Region]++
	}

	stats := make([]RegionStat, 0, len(totals))
	for region, total := range totals {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = total.Div(grand).Mul(decimal.NewFromInt(100)).Round(2)
		}
		stats = append(stats, RegionStat{
			Region:           region,
			TotalSales:       total,
			TransactionCount: counts[region],
			Percentage:       pct,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].TotalSales.Equal(stats[j].TotalSales) {
			return stats[i].TotalSales.GreaterThan(stats[j].TotalSales)
		}
		return stats[i].Region < stats[j].Region
	})
	return stats
}

// productStats aggregates quantity and revenue per product name.
func productStats(txns []model.Transaction) []ProductStat {
	qty := make(map[string]int)
	rev := make(map[string]decimal.Decimal)
	for _, t := range txns {
		qty[t.ProductName] += t.Quantity
		rev[t.ProductName] = rev[t.ProductName].Add(t.Amount())
	}

	stats := make([]ProductStat, 0, len(qty))
	for name, q := range qty {
		stats = append(stats, ProductStat{Name: name, Quantity: q, Revenue: rev[name]})
	}
	return stats
}

// TopProducts returns the n best-selling products by total quantity
// (revenue descending, then name, on ties).
func TopProducts(txns []model.Transaction, n int) []ProductStat {
	stats := productStats(txns)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		if !stats[i].Revenue.Equal(stats[j].Revenue) {
			return stats[i].Revenue.GreaterThan(stats[j].Revenue)
		}
		return stats[i].Name < stats[j].Name
	})
	if n < len(stats) {
		stats = stats[:n]
	}
	return stats
}

// LowPerformers returns products whose total quantity sold is below
// threshold, sorted by quantity ascending (revenue, then name, on ties).
func LowPerformers(txns []model.Transaction, threshold int) []ProductStat {
	var low []ProductStat
	for _, s := range productStats(txns) {
		if s.Quantity < threshold {
			low = append(low, s)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Quantity != low[j].Quantity {
			return low[i].Quantity < low[j].Quantity
		}
		if !low[i].Revenue.Equal(low[j].Revenue) {
			return low[i].Revenue.LessThan(low[j].Revenue)
		}
		return low[i].Name < low[j].Name
	})
	return low
}

// CustomerStats aggregates purchases per customer, sorted by total spent
// descending (customer ID ascending on ties).
func CustomerStats(txns []model.Transaction) []CustomerStat {
	byID := make(map[string]*CustomerStat)
	var order []string

	for _, t := range txns {
		stat, ok := byID[t.CustomerID]
		if !ok {
			stat = &CustomerStat{CustomerID: t.CustomerID}
			byID[t.CustomerID] = stat
			order = append(order, t.CustomerID)
		}
		stat.TotalSpent = stat.TotalSpent.Add(t.Amount())
		stat.PurchaseCount++

		seen := false
		for _, p := range stat.Products {
			if p == t.ProductName {
				seen = true
				break
			}
		}
		if !seen {
			stat.Products = append(stat.Products, t.ProductName)
		}
	}

	stats := make([]CustomerStat, 0, len(order))
	for _, id := range order {
		stat := *byID[id]
		stat.AvgOrderValue = stat.TotalSpent.Div(decimal.NewFromInt(int64(stat.PurchaseCount))).Round(2)
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].TotalSpent.Equal(stats[j].TotalSpent) {
			return stats[i].TotalSpent.GreaterThan(stats[j].TotalSpent)
		}
		return stats[i].CustomerID < stats[j].CustomerID
	})
	return stats
}

// DailyTrend aggregates revenue, transaction count and unique customers per
// date, in chronological order. Dates sort correctly as ISO strings.
func DailyTrend(txns []model.Transaction) []DayStat {
	revenue := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	customers := make(map[string]map[string]bool)

	for _, t := range txns {
		revenue[t.Date] = revenue[t.Date].Add(t.Amount())
		counts[t.Date]++
		if customers[t.Date] == nil {
			customers[t.Date] = make(map[string]bool)
		}
		customers[t.Date][t.CustomerID] = true
	}

	days := make([]DayStat, 0, len(revenue))
	for date, rev := range revenue {
		days = append(days, DayStat{
			Date:             date,
			Revenue:          rev,
			TransactionCount: counts[date],
			UniqueCustomers:  len(customers[date]),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// PeakDay returns the date with the highest revenue, preferring the earliest
// date on ties. ok is false when there are no transactions.
func PeakDay(txns []model.Transaction) (peak DayStat, ok bool) {
	for _, day := range DailyTrend(txns) {
		if !ok || day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
			ok = true
		}
	}
	return peak, ok
}
