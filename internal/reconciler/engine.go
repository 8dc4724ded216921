// Package reconciler drives the per-invoice reconciliation state machine and
// aggregates the outcomes into a reviewable report.
//
// Each invoice is resolved against the purchase order index, compared header
// and line-item wise through the matcher package, and classified MATCH,
// MISMATCH, or ERROR. An unresolvable PO reference is data, not a failure:
// it yields an ERROR-status result and the run continues.
//
// Example usage:
//
//	engine := reconciler.NewEngine(reconciler.DefaultConfig(), log)
//	report := engine.Reconcile(dataset.Invoices, dataset.BuildPOIndex())
package reconciler

import (
	"fmt"

	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/matcher"
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Config holds the engine configuration
type Config struct {
	// Comparison carries the tolerances handed to the matcher.
	Comparison *matcher.ComparisonConfig
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() *Config {
	return &Config{
		Comparison: matcher.DefaultComparisonConfig(),
	}
}

// Validate validates the engine configuration
func (c *Config) Validate() error {
	if c.Comparison == nil {
		return fmt.Errorf("comparison config is required")
	}
	return c.Comparison.Validate()
}

// Engine reconciles invoices against a purchase order index. It holds no
// per-run state; the same engine can process any number of datasets.
type Engine struct {
	config *Config
	logger logger.Logger
}

// NewEngine creates a reconciliation engine. A nil config falls back to
// defaults.
func NewEngine(config *Config, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Engine{
		config: config,
		logger: log.WithComponent("reconciler"),
	}
}

// ReconcileInvoice classifies a single invoice.
//
// The state machine: an empty PO reference or one that resolves to no loaded
// purchase order is terminal ERROR, skipping all comparison. Otherwise headers
// and line items are compared and the invoice lands on MATCH (no issues) or
// MISMATCH (at least one issue).
func (e *Engine) ReconcileInvoice(invoice *models.Invoice, index loader.POIndex) *InvoiceResult {
	result := &InvoiceResult{
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate,
		POReference:   invoice.POReference,
		VendorName:    invoice.VendorName,
		InvoiceTotal:  invoice.TotalAmount,
		HeaderIssues:  []matcher.FieldIssue{},
	}

	if invoice.POReference == "" {
		result.Status = StatusError
		result.Error = errors.UnresolvedReferenceError(invoice.InvoiceNumber, "").Message
		return result
	}

	po, found := index.Resolve(invoice.POReference)
	if !found {
		result.Status = StatusError
		result.Error = errors.UnresolvedReferenceError(invoice.InvoiceNumber, invoice.POReference).Message
		return result
	}

	result.PODate = po.PODate
	result.POTotal = po.TotalAmount

	if issues := matcher.CompareHeaders(invoice, po, e.config.Comparison); issues != nil {
		result.HeaderIssues = issues
	}
	result.LineItems = matcher.CompareLineItems(invoice.LineItems, po.LineItems, e.config.Comparison)
	result.TotalIssues = len(result.HeaderIssues) + len(result.LineItems.Mismatches)

	if result.TotalIssues > 0 {
		result.Status = StatusMismatch
	} else {
		result.Status = StatusMatch
	}

	return result
}

// Reconcile processes every invoice in collection order and aggregates the
// results. Every invoice lands in exactly one of the matched, mismatched, or
// errors lists.
func (e *Engine) Reconcile(invoices []*models.Invoice, index loader.POIndex) *AggregateReport {
	report := &AggregateReport{
		TotalInvoices: len(invoices),
		Matched:       []*InvoiceResult{},
		Mismatched:    []*InvoiceResult{},
		Errors:        []*InvoiceResult{},
	}

	e.logger.WithFields(logger.Fields{
		"invoices":        len(invoices),
		"purchase_orders": len(index),
	}).Info("Starting reconciliation run")

	for _, invoice := range invoices {
		result := e.ReconcileInvoice(invoice, index)

		switch result.Status {
		case StatusMatch:
			report.Matched = append(report.Matched, result)

		case StatusMismatch:
			report.Mismatched = append(report.Mismatched, result)
			e.accumulateMismatch(report, result)

		case StatusError:
			report.Errors = append(report.Errors, result)
			e.logger.WithFields(logger.Fields{
				"invoice": result.InvoiceNumber,
				"reason":  result.Error,
			}).Warn("Invoice could not be reconciled")
		}
	}

	report.Summary.TotalMatched = len(report.Matched)
	report.Summary.TotalMismatched = len(report.Mismatched)
	report.Summary.TotalErrors = len(report.Errors)

	e.logger.WithFields(logger.Fields{
		"matched":    report.Summary.TotalMatched,
		"mismatched": report.Summary.TotalMismatched,
		"errors":     report.Summary.TotalErrors,
	}).Info("Reconciliation run complete")

	return report
}

// accumulateMismatch folds one mismatched result into the summary counters.
func (e *Engine) accumulateMismatch(report *AggregateReport, result *InvoiceResult) {
	if result.InvoiceTotal != nil && result.POTotal != nil {
		variance := result.InvoiceTotal.Sub(*result.POTotal).Abs()
		report.Summary.TotalAmountVariance = report.Summary.TotalAmountVariance.Add(variance)
	}

	for _, issue := range result.HeaderIssues {
		switch issue.Severity {
		case matcher.SeverityHigh:
			report.Summary.HighSeverityIssues++
		case matcher.SeverityMedium:
			report.Summary.MediumSeverityIssues++
		}
	}
}

// Variance returns the absolute total difference for one result, or zero when
// either side has no stated total.
func Variance(result *InvoiceResult) decimal.Decimal {
	if result.InvoiceTotal == nil || result.POTotal == nil {
		return decimal.Zero
	}
	return result.InvoiceTotal.Sub(*result.POTotal).Abs()
}
