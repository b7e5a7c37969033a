package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salespipe-dev/salespipe/internal/analytics"
	"github.com/salespipe-dev/salespipe/internal/catalog"
	"github.com/salespipe-dev/salespipe/internal/config"
	"github.com/salespipe-dev/salespipe/internal/decode"
	"github.com/salespipe-dev/salespipe/internal/export"
	"github.com/salespipe-dev/salespipe/internal/model"
	"github.com/salespipe-dev/salespipe/internal/parser"
	"github.com/salespipe-dev/salespipe/internal/report"
	"github.com/salespipe-dev/salespipe/internal/validate"
)

// runOptions are the run command's flag values. Filter flags replace the
// interactive prompts of earlier versions of the tool.
type runOptions struct {
	configPath     string
	input          string
	enrichedOut    string
	reportOut      string
	region         string
	minAmount      string
	maxAmount      string
	skipEnrichment bool
	verbose        bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sales analytics pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "salespipe.yaml", "config file path")
	cmd.Flags().StringVar(&opts.input, "input", "", "sales data file (overrides config)")
	cmd.Flags().StringVar(&opts.enrichedOut, "enriched-out", "", "enriched output file (overrides config)")
	cmd.Flags().StringVar(&opts.reportOut, "report-out", "", "report output file (overrides config)")
	cmd.Flags().StringVar(&opts.region, "region", "", "keep only this region (exact match)")
	cmd.Flags().StringVar(&opts.minAmount, "min-amount", "", "minimum transaction amount")
	cmd.Flags().StringVar(&opts.maxAmount, "max-amount", "", "maximum transaction amount")
	cmd.Flags().BoolVar(&opts.skipEnrichment, "skip-enrichment", false, "skip the catalog API lookup")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log per-row diagnostics")

	return cmd
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == "salespipe.yaml" {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func runPipeline(ctx context.Context, cfg *config.Config, opts runOptions) error {
	log := newLogger(opts.verbose)

	input := cfg.Input.Path
	if opts.input != "" {
		input = opts.input
	}
	enrichedOut := cfg.Output.EnrichedPath
	if opts.enrichedOut != "" {
		enrichedOut = opts.enrichedOut
	}
	reportOut := cfg.Output.ReportPath
	if opts.reportOut != "" {
		reportOut = opts.reportOut
	}

	// Read and decode.
	fmt.Println("[1/8] Reading sales data...")
	lines, encoding, err := decode.ReadLines(input)
	if err != nil {
		return err
	}
	fmt.Printf("      read %d lines (%s)\n", len(lines), encoding)

	// Parse and clean.
	fmt.Println("[2/8] Parsing and cleaning...")
	txns, skipped := parser.ParseAll(lines)
	for _, diag := range skipped {
		log.WithFields(logrus.Fields{"line": diag.Line, "reason": diag.Reason}).Debug("skipped malformed row")
	}
	fmt.Printf("      parsed %d records, skipped %d malformed rows\n", len(txns), len(skipped))

	// Validate.
	fmt.Println("[3/8] Validating...")
	res := validate.Partition(txns)
	for reason, count := range res.ReasonCounts() {
		log.WithFields(logrus.Fields{"reason": string(reason), "count": count}).Debug("validation failures")
	}
	fmt.Printf("      valid %d, invalid %d\n", len(res.Valid), len(res.Invalid))

	// Optional filters.
	valid := res.Valid
	if opts.region != "" {
		valid = validate.FilterRegion(valid, opts.region)
		fmt.Printf("      after region filter (%s): %d records\n", opts.region, len(valid))
	}
	min, max, err := parseAmountBounds(opts.minAmount, opts.maxAmount)
	if err != nil {
		return err
	}
	if min != nil || max != nil {
		valid = validate.FilterAmount(valid, min, max)
		fmt.Printf("      after amount filter: %d records\n", len(valid))
	}
	if len(valid) == 0 {
		fmt.Println("No valid transactions left after validation/filtering.")
		return nil
	}

	// Quick console summary.
	fmt.Println("[4/8] Analyzing...")
	reportData := report.Data{
		Valid:        valid,
		GeneratedAt:  time.Now(),
		Currency:     cfg.Report.Currency,
		TopProducts:  cfg.Report.TopProducts,
		TopCustomers: cfg.Report.TopCustomers,
		LowThreshold: cfg.Report.LowQuantityThreshold,
	}
	total := analytics.TotalRevenue(valid)
	fmt.Printf("      total revenue %s over %d transactions\n", total.StringFixed(2), len(valid))
	if peak, ok := analytics.PeakDay(valid); ok {
		fmt.Printf("      peak day %s (%s)\n", peak.Date, peak.Revenue.StringFixed(2))
	}

	// Fetch catalog. A failure here is never fatal: the run continues with
	// every transaction unmatched.
	mapping := map[int]model.CatalogProduct{}
	fmt.Println("[5/8] Fetching product catalog...")
	if opts.skipEnrichment {
		fmt.Println("      skipped")
	} else {
		client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Limit,
			time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)
		products, err := client.FetchProducts(ctx)
		if err != nil {
			log.WithError(err).Warn("catalog unavailable, continuing without enrichment")
			fmt.Println("      catalog unavailable, continuing without enrichment")
		} else {
			mapping = catalog.Mapping(products)
			fmt.Printf("      fetched %d products\n", len(products))
		}
	}

	// Enrich.
	fmt.Println("[6/8] Enriching...")
	enriched := catalog.Enrich(valid, mapping)
	matched := 0
	for _, row := range enriched {
		if row.Matched {
			matched++
		}
	}
	fmt.Printf("      matched %d/%d transactions\n", matched, len(enriched))
	reportData.Enriched = enriched

	// Write enriched file.
	fmt.Println("[7/8] Writing enriched data...")
	if err := writeEnrichedFile(enrichedOut, enriched); err != nil {
		return err
	}
	fmt.Printf("      saved %s\n", enrichedOut)

	// Write report.
	fmt.Println("[8/8] Generating report...")
	if err := writeReportFile(reportOut, reportData); err != nil {
		return err
	}
	fmt.Printf("      saved %s\n", reportOut)

	return nil
}

func parseAmountBounds(minStr, maxStr string) (min, max *decimal.Decimal, err error) {
	if minStr != "" {
		d, err := decimal.NewFromString(minStr)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing --min-amount %q: %w", minStr, err)
		}
		min = &d
	}
	if maxStr != "" {
		d, err := decimal.NewFromString(maxStr)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing --max-amount %q: %w", maxStr, err)
		}
		max = &d
	}
	return min, max, nil
}

func writeEnrichedFile(path string, rows []model.EnrichedTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating enriched file: %w", err)
	}
	defer f.Close()

	if err := export.WriteEnriched(f, rows); err != nil {
		return fmt.Errorf("writing enriched file: %w", err)
	}
	return nil
}

func writeReportFile(path string, data report.Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := report.Generate(f, data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
