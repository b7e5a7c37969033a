package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespipe-dev/salespipe/internal/model"
)

func txn(id, date, product string, qty int, price string, customer, region string) model.Transaction {
	p, _ := decimal.NewFromString(price)
	return model.Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     "P101",
		ProductName:   product,
		Quantity:      qty,
		UnitPrice:     p,
		CustomerID:    customer,
		Region:        region,
	}
}

// fixture: North 1300 (2 txns), South 200 (1 txn); total 1500.
func fixture() []model.Transaction {
	return []model.Transaction{
		txn("T001", "2024-01-01", "Laptop", 2, "500", "C001", "North"),   // 1000
		txn("T002", "2024-01-01", "Mouse", 3, "100", "C002", "North"),    // 300
		txn("T003", "2024-01-02", "Keyboard", 4, "50", "C001", "South"),  // 200
	}
}

func TestTotalRevenue(t *testing.T) {
	total := TotalRevenue(fixture())
	assert.Equal(t, "1500", total.String())
	assert.True(t, TotalRevenue(nil).IsZero())
}

func TestRegionStats(t *testing.T) {
	stats := RegionStats(fixture())
	require.Len(t, stats, 2)

	assert.Equal(t, "North", stats[0].Region)
	assert.Equal(t, "1300", stats[0].TotalSales.String())
	assert.Equal(t, 2, stats[0].TransactionCount)
	assert.Equal(t, "86.67", stats[0].Percentage.StringFixed(2))

	assert.Equal(t, "South", stats[1].Region)
	assert.Equal(t, "13.33", stats[1].Percentage.StringFixed(2))
}

func TestTopProducts(t *testing.T) {
	top := TopProducts(fixture(), 2)
	require.Len(t, top, 2)

	// Keyboard sold 4 units, Mouse 3, Laptop 2.
	assert.Equal(t, "Keyboard", top[0].Name)
	assert.Equal(t, 4, top[0].Quantity)
	assert.Equal(t, "Mouse", top[1].Name)

	all := TopProducts(fixture(), 10)
	assert.Len(t, all, 3)
}

func TestLowPerformers(t *testing.T) {
	low := LowPerformers(fixture(), 3)
	require.Len(t, low, 1)
	assert.Equal(t, "Laptop", low[0].Name)
	assert.Equal(t, "1000", low[0].Revenue.String())

	assert.Empty(t, LowPerformers(fixture(), 1))
}

func TestCustomerStats(t *testing.T) {
	stats := CustomerStats(fixture())
	require.Len(t, stats, 2)

	// C001 spent 1200 over 2 orders, C002 spent 300.
	assert.Equal(t, "C001", stats[0].CustomerID)
	assert.Equal(t, "1200", stats[0].TotalSpent.String())
	assert.Equal(t, 2, stats[0].PurchaseCount)
	assert.Equal(t, "600", stats[0].AvgOrderValue.String())
	assert.Equal(t, []string{"Laptop", "Keyboard"}, stats[0].Products)

	assert.Equal(t, "C002", stats[1].CustomerID)
}

func TestDailyTrend(t *testing.T) {
	days := DailyTrend(fixture())
	require.Len(t, days, 2)

	assert.Equal(t, "2024-01-01", days[0].Date)
	assert.Equal(t, "1300", days[0].Revenue.String())
	assert.Equal(t, 2, days[0].TransactionCount)
	assert.Equal(t, 2, days[0].UniqueCustomers)

	assert.Equal(t, "2024-01-02", days[1].Date)
	assert.Equal(t, 1, days[1].UniqueCustomers)
}

func TestPeakDay(t *testing.T) {
	peak, ok := PeakDay(fixture())
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", peak.Date)
	assert.Equal(t, "1300", peak.Revenue.String())

	_, ok = PeakDay(nil)
	assert.False(t, ok)
}

func TestPeakDayTieBreaksEarliest(t *testing.T) {
	txns := []model.Transaction{
		txn("T001", "2024-01-05", "A", 1, "100", "C001", "North"),
		txn("T002", "2024-01-02", "B", 1, "100", "C002", "North"),
	}
	peak, ok := PeakDay(txns)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", peak.Date)
}
