// Package report renders the formatted text sales report.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salespipe-dev/salespipe/internal/analytics"
	"github.com/salespipe-dev/salespipe/internal/model"
)

const ruleWidth = 60

// Data holds everything the report needs.
type Data struct {
	Valid        []model.Transaction
	Enriched     []model.EnrichedTransaction
	GeneratedAt  time.Time
	Currency     string
	TopProducts  int
	TopCustomers int
	LowThreshold int
}

// Generate writes the full text report.
func Generate(w io.Writer, d Data) error {
	var b strings.Builder

	writeHeader(&b, d)
	writeSummary(&b, d)
	writeRegions(&b, d)
	writeTopProducts(&b, d)
	writeTopCustomers(&b, d)
	writeDailyTrend(&b, d)
	writeProductPerformance(&b, d)
	writeEnrichmentSummary(&b, d)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeader(b *strings.Builder, d Data) {
	rule(b, '=')
	center(b, "SALES ANALYTICS REPORT")
	center(b, "Generated: "+d.GeneratedAt.Format("2006-01-02 15:04:05"))
	center(b, fmt.Sprintf("Records Processed: %d", len(d.Valid)))
	rule(b, '=')
	b.WriteString("\n")
}

func writeSummary(b *strings.Builder, d Data) {
	total := analytics.TotalRevenue(d.Valid)
	avg := decimal.Zero
	if len(d.Valid) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(d.Valid)))).Round(2)
	}

	var dates []string
	for _, t := range d.Valid {
		dates = append(dates, t.Date)
	}
	dateMin, dateMax := "N/A", "N/A"
	if len(dates) > 0 {
		sort.Strings(dates)
		dateMin, dateMax = dates[0], dates[len(dates)-1]
	}

	section(b, "OVERALL SUMMARY")
	fmt.Fprintf(b, "Total Revenue:        %s\n", d.money(total))
	fmt.Fprintf(b, "Total Transactions:   %d\n", len(d.Valid))
	fmt.Fprintf(b, "Average Order Value:  %s\n", d.money(avg))
	fmt.Fprintf(b, "Date Range:           %s to %s\n\n", dateMin, dateMax)
}

func writeRegions(b *strings.Builder, d Data) {
	section(b, "REGION-WISE PERFORMANCE")
	stats := analytics.RegionStats(d.Valid)
	if len(stats) == 0 {
		b.WriteString("No region data available.\n\n")
		return
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Region,
			d.money(s.TotalSales),
			s.Percentage.StringFixed(2) + "%",
			fmt.Sprintf("%d", s.TransactionCount),
		})
	}
	table(b, []string{"Region", "Sales", "% of Total", "Transactions"}, rows)
	b.WriteString("\n")
}

func writeTopProducts(b *strings.Builder, d Data) {
	section(b, fmt.Sprintf("TOP %d PRODUCTS", d.TopProducts))
	stats := analytics.TopProducts(d.Valid, d.TopProducts)
	if len(stats) == 0 {
		b.WriteString("No product data available.\n\n")
		return
	}

	rows := make([][]string, 0, len(stats))
	for i, s := range stats {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.Name,
			fmt.Sprintf("%d", s.Quantity),
			d.money(s.Revenue),
		})
	}
	table(b, []string{"Rank", "Product Name", "Quantity Sold", "Revenue"}, rows)
	b.WriteString("\n")
}

func writeTopCustomers(b *strings.Builder, d Data) {
	section(b, fmt.Sprintf("TOP %d CUSTOMERS", d.TopCustomers))
	stats := analytics.CustomerStats(d.Valid)
	if len(stats) == 0 {
		b.WriteString("No customer data available.\n\n")
		return
	}
	if d.TopCustomers < len(stats) {
		stats = stats[:d.TopCustomers]
	}

	rows := make([][]string, 0, len(stats))
	for i, s := range stats {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.CustomerID,
			d.money(s.TotalSpent),
			fmt.Sprintf("%d", s.PurchaseCount),
		})
	}
	table(b, []string{"Rank", "Customer ID", "Total Spent", "Order Count"}, rows)
	b.WriteString("\n")
}

func writeDailyTrend(b *strings.Builder, d Data) {
	section(b, "DAILY SALES TREND")
	days := analytics.DailyTrend(d.Valid)
	if len(days) == 0 {
		b.WriteString("No daily trend data available.\n\n")
		return
	}

	rows := make([][]string, 0, len(days))
	for _, day := range days {
		rows = append(rows, []string{
			day.Date,
			d.money(day.Revenue),
			fmt.Sprintf("%d", day.TransactionCount),
			fmt.Sprintf("%d", day.UniqueCustomers),
		})
	}
	table(b, []string{"Date", "Revenue", "Transactions", "Unique Customers"}, rows)
	b.WriteString("\n")
}

func writeProductPerformance(b *strings.Builder, d Data) {
	section(b, "PRODUCT PERFORMANCE ANALYSIS")

	if peak, ok := analytics.PeakDay(d.Valid); ok {
		fmt.Fprintf(b, "Best selling day: %s | Revenue: %s | Transactions: %d\n",
			peak.Date, d.money(peak.Revenue), peak.TransactionCount)
	} else {
		b.WriteString("Best selling day: N/A\n")
	}

	fmt.Fprintf(b, "\nLow performing products (qty < %d):\n", d.LowThreshold)
	low := analytics.LowPerformers(d.Valid, d.LowThreshold)
	if len(low) == 0 {
		b.WriteString("None\n")
	} else {
		rows := make([][]string, 0, len(low))
		for _, s := range low {
			rows = append(rows, []string{s.Name, fmt.Sprintf("%d", s.Quantity), d.money(s.Revenue)})
		}
		table(b, []string{"Product Name", "Total Quantity", "Total Revenue"}, rows)
	}

	b.WriteString("\nAverage transaction value per region:\n")
	stats := analytics.RegionStats(d.Valid)
	if len(stats) == 0 {
		b.WriteString("N/A\n")
	} else {
		rows := make([][]string, 0, len(stats))
		for _, s := range stats {
			avg := s.TotalSales.Div(decimal.NewFromInt(int64(s.TransactionCount))).Round(2)
			rows = append(rows, []string{s.Region, d.money(avg)})
		}
		table(b, []string{"Region", "Avg Tx Value"}, rows)
	}
	b.WriteString("\n")
}

func writeEnrichmentSummary(b *strings.Builder, d Data) {
	section(b, "API ENRICHMENT SUMMARY")

	matched := 0
	unmatchedNames := make(map[string]bool)
	for _, row := range d.Enriched {
		if row.Matched {
			matched++
		} else if row.ProductName != "" {
			unmatchedNames[row.ProductName] = true
		}
	}

	rate := decimal.Zero
	if len(d.Enriched) > 0 {
		rate = decimal.NewFromInt(int64(matched)).
			Div(decimal.NewFromInt(int64(len(d.Enriched)))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	fmt.Fprintf(b, "Total transactions enriched: %d\n", len(d.Enriched))
	fmt.Fprintf(b, "Successful enrichments:      %d\n", matched)
	fmt.Fprintf(b, "Success rate:                %s%%\n\n", rate.StringFixed(2))

	b.WriteString("Products that couldn't be enriched:\n")
	if len(unmatchedNames) == 0 {
		b.WriteString("None\n")
	} else {
		names := make([]string, 0, len(unmatchedNames))
		for name := range unmatchedNames {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(b, "- %s\n", name)
		}
	}
	b.WriteString("\n")
}

// money formats an amount with the configured currency symbol and thousands
// separators, e.g. "₹45,000.00".
func (d Data) money(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(ch)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + d.Currency + grouped.String() + "." + fracPart
}

func rule(b *strings.Builder, ch byte) {
	b.WriteString(strings.Repeat(string(ch), ruleWidth))
	b.WriteByte('\n')
}

func section(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteByte('\n')
	rule(b, '-')
}

func center(b *strings.Builder, s string) {
	pad := (ruleWidth - len([]rune(s))) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

// table writes a fixed-width aligned text table with a dashed underline.
func table(b *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}

	writeRow(headers)
	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(dashes, "  "))
	b.WriteByte('\n')
	for _, row := range rows {
		writeRow(row)
	}
}
