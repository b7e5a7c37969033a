package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level salespipe.yaml configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Catalog CatalogConfig `yaml:"catalog"`
	Report  ReportConfig  `yaml:"report"`
}

// InputConfig locates the sales data file.
type InputConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig locates the generated files.
type OutputConfig struct {
	EnrichedPath string `yaml:"enriched_path"`
	ReportPath   string `yaml:"report_path"`
}

// CatalogConfig configures the product catalog API.
type CatalogConfig struct {
	BaseURL        string `yaml:"base_url"`
	Limit          int    `yaml:"limit"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ReportConfig tunes report contents.
type ReportConfig struct {
	TopProducts          int    `yaml:"top_products"`
	TopCustomers         int    `yaml:"top_customers"`
	LowQuantityThreshold int    `yaml:"low_quantity_threshold"`
	Currency             string `yaml:"currency"`
}

// Load reads a salespipe.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: "data/sales_data.txt",
		},
		Output: OutputConfig{
			EnrichedPath: "data/enriched_sales_data.txt",
			ReportPath:   "output/sales_report.txt",
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://dummyjson.com",
			Limit:          100,
			TimeoutSeconds: 15,
		},
		Report: ReportConfig{
			TopProducts:          5,
			TopCustomers:         5,
			LowQuantityThreshold: 10,
			Currency:             "₹",
		},
	}
}
