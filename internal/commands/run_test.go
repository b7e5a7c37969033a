package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespipe-dev/salespipe/internal/config"
	"github.com/salespipe-dev/salespipe/internal/export"
)

const sampleSales = `TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
T001|2024-01-01|P1|Laptop|2|45,000|C001|North
T002|2024-01-01|P2|Wireless, Mouse|5|500|C002|South

T003|2024-01-02|P3|USB|C Cable|3|1200|C001|North
T004|2024-01-02|P99|Webcam|-3|2500|C003|East
X005|2024-01-03|P1|Laptop|1|45000|C004|West
T006|broken
`

func testConfig(t *testing.T, baseURL string) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales_data.txt"), []byte(sampleSales), 0o644))

	cfg := config.Default()
	cfg.Input.Path = filepath.Join(dir, "sales_data.txt")
	cfg.Output.EnrichedPath = filepath.Join(dir, "enriched.txt")
	cfg.Output.ReportPath = filepath.Join(dir, "report.txt")
	cfg.Catalog.BaseURL = baseURL
	cfg.Catalog.Limit = 100
	cfg.Catalog.TimeoutSeconds = 2
	return cfg, dir
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[
			{"id":1,"title":"Laptop","category":"laptops","brand":"Dell","price":45000,"rating":4.5},
			{"id":2,"title":"Mouse","category":"peripherals","brand":"Logi","price":500,"rating":4.2}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPipeline(t *testing.T) {
	srv := catalogServer(t)
	cfg, _ := testConfig(t, srv.URL)

	require.NoError(t, runPipeline(context.Background(), cfg, runOptions{}))

	// Enriched output: 3 valid rows (T004 invalid quantity, X005 bad
	// prefix, T006 malformed).
	f, err := os.Open(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadEnriched(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "T001", rows[0].TransactionID)
	assert.Equal(t, "45000", rows[0].UnitPrice.String())
	assert.True(t, rows[0].Matched)
	assert.Equal(t, "laptops", rows[0].Category)

	assert.Equal(t, "Wireless, Mouse", rows[1].ProductName)
	assert.True(t, rows[1].Matched)

	assert.Equal(t, "USB|C Cable", rows[2].ProductName)
	assert.False(t, rows[2].Matched) // P3 not in catalog

	// Report exists and has the expected sections.
	data, err := os.ReadFile(cfg.Output.ReportPath)
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "SALES ANALYTICS REPORT")
	assert.Contains(t, report, "API ENRICHMENT SUMMARY")
	assert.Contains(t, report, "Records Processed: 3")
}

func TestRunPipelineCatalogDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	cfg, _ := testConfig(t, srv.URL)

	require.NoError(t, runPipeline(context.Background(), cfg, runOptions{}))

	f, err := os.Open(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadEnriched(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.False(t, row.Matched)
	}
}

func TestRunPipelineRegionFilter(t *testing.T) {
	srv := catalogServer(t)
	cfg, _ := testConfig(t, srv.URL)

	opts := runOptions{region: "North"}
	require.NoError(t, runPipeline(context.Background(), cfg, opts))

	f, err := os.Open(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadEnriched(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "North", row.Region)
	}
}

func TestRunPipelineAmountFilter(t *testing.T) {
	srv := catalogServer(t)
	cfg, _ := testConfig(t, srv.URL)

	// Only T002 (5×500=2500) and T003 (3×1200=3600) fall in [2500, 4000].
	opts := runOptions{minAmount: "2500", maxAmount: "4000"}
	require.NoError(t, runPipeline(context.Background(), cfg, opts))

	f, err := os.Open(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadEnriched(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "T002", rows[0].TransactionID)
	assert.Equal(t, "T003", rows[1].TransactionID)
}

func TestRunPipelineMissingInput(t *testing.T) {
	cfg, dir := testConfig(t, "http://127.0.0.1:0")
	cfg.Input.Path = filepath.Join(dir, "nope.txt")

	err := runPipeline(context.Background(), cfg, runOptions{skipEnrichment: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunPipelineSkipEnrichment(t *testing.T) {
	cfg, _ := testConfig(t, "http://127.0.0.1:0")

	require.NoError(t, runPipeline(context.Background(), cfg, runOptions{skipEnrichment: true}))

	data, err := os.ReadFile(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "TransactionID|Date|"))
}

func TestParseAmountBounds(t *testing.T) {
	min, max, err := parseAmountBounds("10.5", "")
	require.NoError(t, err)
	require.NotNil(t, min)
	assert.Equal(t, "10.5", min.String())
	assert.Nil(t, max)

	_, _, err = parseAmountBounds("abc", "")
	require.Error(t, err)
}
