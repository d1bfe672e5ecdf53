package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Columns maps the required export columns to their header names
type Columns struct {
	SaleDate    string `yaml:"sale_date"`
	ListingDate string `yaml:"listing_date"`
	Buyer       string `yaml:"buyer"`
	Region      string `yaml:"region"`
	Size        string `yaml:"size"`
	Total       string `yaml:"total"`
	Fee         string `yaml:"fee"`
}

// Required returns the column names every input file must carry
func (c Columns) Required() []string {
	return []string{c.SaleDate, c.ListingDate, c.Buyer, c.Region, c.Size, c.Total, c.Fee}
}

// Region configures the "shipments inside region" count
type Region struct {
	Label  string   `yaml:"label"`  // used in the report column header
	Tokens []string `yaml:"tokens"` // lower-case substrings, any match counts
}

type Config struct {
	InputDir    string   `yaml:"input_dir"`
	OutputDir   string   `yaml:"output_dir"`
	FilePattern string   `yaml:"file_pattern"`
	Columns     Columns  `yaml:"columns"`
	DateLayouts []string `yaml:"date_layouts"`
	Sizes       []string `yaml:"sizes"`
	Region      Region   `yaml:"region"`

	// SQLitePath enables the database mirror of the report tables when set
	SQLitePath string `yaml:"sqlite_path"`
}

// Default returns the configuration matching the marketplace's sales export
func Default() *Config {
	return &Config{
		InputDir:    "input",
		OutputDir:   "output",
		FilePattern: "*.csv",
		Columns: Columns{
			SaleDate:    "Date of sale",
			ListingDate: "Date of listing",
			Buyer:       "Buyer",
			Region:      "State",
			Size:        "Size",
			Total:       "Total",
			Fee:         "Depop fee",
		},
		DateLayouts: []string{
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02T15:04:05.000",
			time.RFC3339,
			"01/02/2006",
			"1/2/2006",
			"1/2/06",
			"2006/01/02",
		},
		Sizes: []string{"XS", "S", "M", "L"},
		Region: Region{
			Label:  "CA",
			Tokens: []string{"ca", "california"},
		},
	}
}

// Load reads an optional YAML file on top of Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for i, tok := range cfg.Region.Tokens {
		cfg.Region.Tokens[i] = strings.ToLower(tok)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns every problem found
func (c *Config) Validate() error {
	var errors []string

	if c.InputDir == "" {
		errors = append(errors, "input directory cannot be empty")
	}
	if c.OutputDir == "" {
		errors = append(errors, "output directory cannot be empty")
	}
	if _, err := filepath.Match(c.FilePattern, "probe.csv"); err != nil || c.FilePattern == "" {
		errors = append(errors, fmt.Sprintf("invalid file pattern '%s'", c.FilePattern))
	}

	seen := make(map[string]bool)
	for _, col := range c.Columns.Required() {
		if strings.TrimSpace(col) == "" {
			errors = append(errors, "column names cannot be empty")
			break
		}
		if seen[col] {
			errors = append(errors, fmt.Sprintf("column '%s' mapped more than once", col))
		}
		seen[col] = true
	}

	if len(c.DateLayouts) == 0 {
		errors = append(errors, "at least one date layout is required")
	}
	if len(c.Sizes) == 0 {
		errors = append(errors, "at least one size category is required")
	}
	sizes := make(map[string]bool)
	for _, s := range c.Sizes {
		if sizes[s] {
			errors = append(errors, fmt.Sprintf("size '%s' listed more than once", s))
		}
		sizes[s] = true
	}

	if c.Region.Label == "" {
		errors = append(errors, "region label cannot be empty")
	}
	if len(c.Region.Tokens) == 0 {
		errors = append(errors, "at least one region token is required")
	}
	for _, tok := range c.Region.Tokens {
		if tok == "" {
			errors = append(errors, "region tokens cannot be empty")
			break
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}
