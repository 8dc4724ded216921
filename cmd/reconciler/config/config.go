// Package config assembles component configurations from CLI flag values.
package config

import (
	"fmt"

	"invoice-reconciliation-service/internal/generator"
	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/matcher"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/reporter"

	"github.com/shopspring/decimal"
)

// CreateLoaderConfig builds the dataset loader configuration
func CreateLoaderConfig(invoicesFile, poFile string) (*loader.Config, error) {
	config := loader.DefaultConfig()
	config.InvoicesFile = invoicesFile
	config.PurchaseOrdersFile = poFile

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// CreateEngineConfig builds the reconciliation engine configuration. A
// negative tolerance is rejected; zero means exact monetary comparison.
func CreateEngineConfig(amountTolerance float64) (*reconciler.Config, error) {
	config := reconciler.DefaultConfig()
	config.Comparison = &matcher.ComparisonConfig{
		AmountTolerance: decimal.NewFromFloat(amountTolerance),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// CreateReportConfig builds the report generator configuration
func CreateReportConfig(format string, includeMatched bool) (*reporter.ReportConfig, error) {
	config := reporter.DefaultReportConfig()
	config.Format = reporter.OutputFormat(format)
	config.IncludeMatched = includeMatched

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GeneratorOptions carries the generate command's flag values
type GeneratorOptions struct {
	POCount            int
	PerfectInvoices    int
	PriceMismatches    int
	QuantityMismatches int
	Overbilled         int
	OrphanInvoices     int
	Seed               int64
}

// CreateGeneratorConfig builds the synthetic dataset generator configuration
func CreateGeneratorConfig(opts GeneratorOptions) (*generator.Config, error) {
	config := generator.DefaultConfig()
	config.POCount = opts.POCount
	config.PerfectInvoices = opts.PerfectInvoices
	config.PriceMismatches = opts.PriceMismatches
	config.QuantityMismatches = opts.QuantityMismatches
	config.Overbilled = opts.Overbilled
	config.OrphanInvoices = opts.OrphanInvoices
	config.Seed = opts.Seed

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator options: %w", err)
	}
	return config, nil
}
