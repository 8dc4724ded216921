// Package matcher implements the invoice/purchase-order comparison core:
// header field comparison with severity tagging and line-item comparison with
// a multi-level mismatch taxonomy.
//
// Comparison is deterministic and pure. Numeric fields are compared within an
// absolute tolerance to absorb rounding noise from upstream extraction;
// string fields compare exactly. The comparators never mutate their inputs
// and hold no state between calls.
//
// Example usage:
//
//	config := matcher.DefaultComparisonConfig()
//	headerIssues := matcher.CompareHeaders(invoice, po, config)
//	lineItems := matcher.CompareLineItems(invoice.LineItems, po.LineItems, config)
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Severity classifies how serious a header field discrepancy is
type Severity string

const (
	// SeverityHigh marks discrepancies that block payment approval:
	// wrong vendor, wrong currency, or a monetary total that disagrees.
	SeverityHigh Severity = "HIGH"

	// SeverityMedium marks discrepancies worth review but not blocking,
	// currently only tax differences.
	SeverityMedium Severity = "MEDIUM"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is a known level
func (s Severity) IsValid() bool {
	return s == SeverityHigh || s == SeverityMedium
}

// ComparisonConfig holds the tolerances used when comparing documents
type ComparisonConfig struct {
	// AmountTolerance is the maximum absolute difference between two
	// monetary values before they are flagged as mismatched. The boundary
	// is exclusive: a difference of exactly the tolerance passes.
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`
}

// DefaultComparisonConfig returns the standard configuration: one cent of
// absolute tolerance on every monetary comparison.
func DefaultComparisonConfig() *ComparisonConfig {
	return &ComparisonConfig{
		AmountTolerance: decimal.NewFromFloat(0.01),
	}
}

// Validate validates the comparison configuration
func (c *ComparisonConfig) Validate() error {
	if c.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative, got %s", c.AmountTolerance.String())
	}
	return nil
}

// Clone returns a copy of the configuration
func (c *ComparisonConfig) Clone() *ComparisonConfig {
	return &ComparisonConfig{
		AmountTolerance: c.AmountTolerance,
	}
}

// exceedsTolerance reports whether two amounts differ by strictly more than
// the configured tolerance.
func (c *ComparisonConfig) exceedsTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(c.AmountTolerance)
}

// FieldIssue records one detected header-level discrepancy between an invoice
// and its purchase order.
type FieldIssue struct {
	Field        string           `json:"field"`
	InvoiceValue interface{}      `json:"invoice_value"`
	POValue      interface{}      `json:"po_value"`
	Difference   *decimal.Decimal `json:"difference,omitempty"`
	Severity     Severity         `json:"severity"`

	// Missing marks issues where exactly one side never populated the field,
	// as opposed to both sides stating values that disagree.
	Missing bool `json:"missing,omitempty"`
}

// String returns a string representation of the FieldIssue
func (fi *FieldIssue) String() string {
	if fi.Difference != nil {
		return fmt.Sprintf("FieldIssue{%s [%s]: invoice=%v po=%v diff=%s}",
			fi.Field, fi.Severity, fi.InvoiceValue, fi.POValue, fi.Difference.String())
	}
	return fmt.Sprintf("FieldIssue{%s [%s]: invoice=%v po=%v}",
		fi.Field, fi.Severity, fi.InvoiceValue, fi.POValue)
}
