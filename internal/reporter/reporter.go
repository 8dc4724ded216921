// Package reporter renders reconciliation reports for terminal review and for
// programmatic consumption.
//
// Supported output formats:
//   - Console: the mismatch analysis text report, deterministic for a given
//     AggregateReport so runs can be diffed
//   - JSON: the indented AggregateReport structure
//
// Example usage:
//
//	generator := reporter.NewReportGenerator(reporter.DefaultReportConfig())
//	err := generator.GenerateReport(report, os.Stdout)
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"invoice-reconciliation-service/internal/matcher"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// IncludeMatched adds a section listing matched invoices to the console
	// report. JSON output always carries the full structure.
	IncludeMatched bool `json:"include_matched"`

	// CurrencySymbol prefixes monetary values in the console report.
	CurrencySymbol string `json:"currency_symbol"`
}

// DefaultReportConfig returns the standard console configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:         FormatConsole,
		CurrencySymbol: "$",
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "format", c.Format, nil).
			WithSuggestion("use 'console' or 'json'")
	}
	return nil
}

// ReportGenerator renders AggregateReports in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator. A nil config falls back to
// defaults.
func NewReportGenerator(config *ReportConfig) *ReportGenerator {
	if config == nil {
		config = DefaultReportConfig()
	}
	return &ReportGenerator{config: config}
}

// GenerateReport writes the report to the given writer in the configured
// format.
func (rg *ReportGenerator) GenerateReport(report *reconciler.AggregateReport, w io.Writer) error {
	switch rg.config.Format {
	case FormatJSON:
		return rg.writeJSON(report, w)
	case FormatConsole:
		return rg.writeConsole(report, w)
	default:
		return errors.ConfigurationError(errors.CodeInvalidConfig, "format", rg.config.Format, nil)
	}
}

func (rg *ReportGenerator) writeJSON(report *reconciler.AggregateReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, errors.CodeProcessingError,
			"failed to encode report as JSON")
	}
	return nil
}

const bannerWidth = 80

func (rg *ReportGenerator) writeConsole(report *reconciler.AggregateReport, w io.Writer) error {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	b.WriteString(banner + "\n")
	b.WriteString("INVOICE-PO MISMATCH ANALYSIS REPORT\n")
	b.WriteString(banner + "\n\n")

	summary := report.Summary
	b.WriteString(fmt.Sprintf("Total Invoices Analyzed: %d\n", report.TotalInvoices))
	b.WriteString(fmt.Sprintf("  ✓ Matched: %d (%s)\n",
		summary.TotalMatched, percentage(summary.TotalMatched, report.TotalInvoices)))
	b.WriteString(fmt.Sprintf("  ✗ Mismatched: %d (%s)\n",
		summary.TotalMismatched, percentage(summary.TotalMismatched, report.TotalInvoices)))
	b.WriteString(fmt.Sprintf("  ! Errors: %d\n\n", summary.TotalErrors))

	b.WriteString(fmt.Sprintf("Total Amount Variance: %s\n", rg.money(summary.TotalAmountVariance)))
	b.WriteString(fmt.Sprintf("High Severity Issues: %d\n", summary.HighSeverityIssues))
	b.WriteString(fmt.Sprintf("Medium Severity Issues: %d\n\n", summary.MediumSeverityIssues))

	if len(report.Mismatched) > 0 {
		b.WriteString(banner + "\n")
		b.WriteString("MISMATCHED INVOICES DETAIL\n")
		b.WriteString(banner + "\n\n")

		for idx, mismatch := range report.Mismatched {
			rg.writeMismatchBlock(&b, idx+1, mismatch)
		}
	}

	if rg.config.IncludeMatched && len(report.Matched) > 0 {
		b.WriteString(banner + "\n")
		b.WriteString("MATCHED INVOICES\n")
		b.WriteString(banner + "\n")
		for _, matched := range report.Matched {
			b.WriteString(fmt.Sprintf("  - Invoice %s → PO %s (%s)\n",
				matched.InvoiceNumber, matched.POReference, rg.optionalMoney(matched.InvoiceTotal)))
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString(banner + "\n")
		b.WriteString("ERRORS\n")
		b.WriteString(banner + "\n")
		for _, errResult := range report.Errors {
			b.WriteString(fmt.Sprintf("  - Invoice %s: %s\n", errResult.InvoiceNumber, errResult.Error))
		}
	}

	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, errors.CodeProcessingError,
			"failed to write console report")
	}
	return nil
}

// writeMismatchBlock renders one mismatched invoice: the header line, the
// header field issues, then the line-item issues grouped by type.
func (rg *ReportGenerator) writeMismatchBlock(b *strings.Builder, idx int, mismatch *reconciler.InvoiceResult) {
	b.WriteString(fmt.Sprintf("\n%d. Invoice: %s → PO: %s\n", idx, mismatch.InvoiceNumber, mismatch.POReference))
	b.WriteString(fmt.Sprintf("   Vendor: %s\n", mismatch.VendorName))
	b.WriteString(fmt.Sprintf("   Invoice Total: %s | PO Total: %s\n",
		rg.optionalMoney(mismatch.InvoiceTotal), rg.optionalMoney(mismatch.POTotal)))
	b.WriteString(fmt.Sprintf("   Total Issues: %d\n", mismatch.TotalIssues))

	if len(mismatch.HeaderIssues) > 0 {
		b.WriteString("\n   Header Issues:\n")
		for _, issue := range mismatch.HeaderIssues {
			b.WriteString("     - " + rg.formatHeaderIssue(&issue) + "\n")
		}
	}

	if mismatch.LineItems != nil && len(mismatch.LineItems.Mismatches) > 0 {
		b.WriteString("\n   Line Item Issues:\n")
		for _, item := range mismatch.LineItems.Mismatches {
			switch item.Type {
			case matcher.MismatchItem:
				b.WriteString(fmt.Sprintf("     - Item %s (%s):\n", item.ItemCode, item.Description))
				for _, diff := range item.Issues {
					b.WriteString(fmt.Sprintf("       • %s\n", diff.FormatDiff()))
				}
			case matcher.MismatchNotInPO:
				b.WriteString(fmt.Sprintf("     - %s: In invoice but NOT in PO (Qty: %d)\n",
					item.ItemCode, item.InvoiceQuantity))
			case matcher.MismatchNotInInvoice:
				b.WriteString(fmt.Sprintf("     - %s: In PO but NOT invoiced (Qty: %d)\n",
					item.ItemCode, item.POQuantity))
			}
		}
	}

	b.WriteString("\n")
}

// formatHeaderIssue renders one header issue line. Monetary issues show the
// signed difference; string issues show both quoted values; missing-field
// issues name the absent side.
func (rg *ReportGenerator) formatHeaderIssue(issue *matcher.FieldIssue) string {
	if issue.Missing {
		return fmt.Sprintf("%s [%s]: Invoice=%s vs PO=%s (missing value)",
			issue.Field, issue.Severity,
			rg.issueValue(issue.InvoiceValue), rg.issueValue(issue.POValue))
	}

	if issue.Difference != nil {
		return fmt.Sprintf("%s [%s]: Invoice=%s vs PO=%s (Diff: %s)",
			issue.Field, issue.Severity,
			rg.issueValue(issue.InvoiceValue), rg.issueValue(issue.POValue),
			rg.signedMoney(*issue.Difference))
	}

	return fmt.Sprintf("%s [%s]: Invoice='%v' vs PO='%v'",
		issue.Field, issue.Severity, issue.InvoiceValue, issue.POValue)
}

// issueValue renders a header issue value, which is either a decimal amount,
// a string, or nil for a missing field.
func (rg *ReportGenerator) issueValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "(absent)"
	case decimal.Decimal:
		return rg.money(v)
	default:
		return fmt.Sprintf("'%v'", v)
	}
}

func (rg *ReportGenerator) money(amount decimal.Decimal) string {
	return rg.config.CurrencySymbol + groupThousands(amount.StringFixed(2))
}

func (rg *ReportGenerator) signedMoney(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + rg.money(amount.Neg())
	}
	return "+" + rg.money(amount)
}

func (rg *ReportGenerator) optionalMoney(amount *decimal.Decimal) string {
	if amount == nil {
		return "n/a"
	}
	return rg.money(*amount)
}

// percentage renders count/total as a 1-decimal percentage, guarding the
// zero-invoice case.
func percentage(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}
