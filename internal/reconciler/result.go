package reconciler

import (
	"fmt"
	"strings"

	"invoice-reconciliation-service/internal/matcher"

	"github.com/shopspring/decimal"
)

// Status is the terminal classification of one reconciled invoice
type Status string

const (
	// StatusMatch means the PO resolved and no discrepancy was found.
	StatusMatch Status = "MATCH"

	// StatusMismatch means the PO resolved and at least one header issue or
	// line-item mismatch was found.
	StatusMismatch Status = "MISMATCH"

	// StatusError means the invoice's PO reference was empty or matched no
	// loaded purchase order; no comparison was attempted.
	StatusError Status = "ERROR"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a known classification
func (s Status) IsValid() bool {
	return s == StatusMatch || s == StatusMismatch || s == StatusError
}

// InvoiceResult is the complete outcome of reconciling one invoice against its
// referenced purchase order. For ERROR results the comparison fields stay
// empty and Error carries the reason.
type InvoiceResult struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	POReference   string `json:"po_reference"`
	PODate        string `json:"po_date,omitempty"`
	VendorName    string `json:"vendor_name,omitempty"`

	InvoiceTotal *decimal.Decimal `json:"invoice_total,omitempty"`
	POTotal      *decimal.Decimal `json:"po_total,omitempty"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`

	HeaderIssues []matcher.FieldIssue        `json:"header_issues"`
	LineItems    *matcher.LineItemComparison `json:"line_item_comparison,omitempty"`

	// TotalIssues is the count of header issues plus line-item mismatches.
	TotalIssues int `json:"total_issues"`
}

// HasIssues reports whether the result carries any discrepancy
func (r *InvoiceResult) HasIssues() bool {
	return r.TotalIssues > 0
}

// String returns a one-line summary of the result
func (r *InvoiceResult) String() string {
	switch r.Status {
	case StatusError:
		return fmt.Sprintf("InvoiceResult{%s [%s]: %s}", r.InvoiceNumber, r.Status, r.Error)
	default:
		return fmt.Sprintf("InvoiceResult{%s [%s]: %d issues}", r.InvoiceNumber, r.Status, r.TotalIssues)
	}
}

// Summary holds the aggregate counters derived from a full reconciliation run
type Summary struct {
	TotalMatched    int `json:"total_matched"`
	TotalMismatched int `json:"total_mismatched"`
	TotalErrors     int `json:"total_errors"`

	// TotalAmountVariance is the sum of abs(invoice total - po total) over
	// mismatched invoices only. ERROR invoices contribute nothing.
	TotalAmountVariance decimal.Decimal `json:"total_amount_variance"`

	HighSeverityIssues   int `json:"high_severity_issues"`
	MediumSeverityIssues int `json:"medium_severity_issues"`
}

// AggregateReport is the full output of one reconciliation run. It is derived
// entirely from the per-invoice results and recomputed on every run; it owns
// no state of its own.
type AggregateReport struct {
	TotalInvoices int              `json:"total_invoices"`
	Matched       []*InvoiceResult `json:"matched"`
	Mismatched    []*InvoiceResult `json:"mismatched"`
	Errors        []*InvoiceResult `json:"errors"`
	Summary       Summary          `json:"summary"`
}

// MismatchesForVendor returns the mismatched results whose vendor name equals
// the given name, compared case-insensitively.
func MismatchesForVendor(report *AggregateReport, vendorName string) []*InvoiceResult {
	filtered := []*InvoiceResult{}
	for _, result := range report.Mismatched {
		if strings.EqualFold(result.VendorName, vendorName) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// MismatchesAboveVariance returns the mismatched results whose absolute total
// variance strictly exceeds the threshold. Results missing either total are
// skipped.
func MismatchesAboveVariance(report *AggregateReport, threshold decimal.Decimal) []*InvoiceResult {
	filtered := []*InvoiceResult{}
	for _, result := range report.Mismatched {
		if result.InvoiceTotal == nil || result.POTotal == nil {
			continue
		}
		variance := result.InvoiceTotal.Sub(*result.POTotal).Abs()
		if variance.GreaterThan(threshold) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
