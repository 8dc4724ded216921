package matcher

import (
	"invoice-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// CompareHeaders compares the document-level fields of an invoice against its
// resolved purchase order and returns the discrepancies in field order:
// vendor_name, vendor_id, currency, subtotal, tax, total_amount.
//
// Every rule is checked independently; one mismatch never suppresses another.
// String fields compare exactly (two empty values are equal). Monetary fields
// compare within the configured tolerance when both sides are populated; when
// exactly one side is populated a missing-field issue is raised at the same
// severity a value mismatch would carry.
func CompareHeaders(invoice *models.Invoice, po *models.PurchaseOrder, config *ComparisonConfig) []FieldIssue {
	if config == nil {
		config = DefaultComparisonConfig()
	}

	var issues []FieldIssue

	if invoice.VendorName != po.VendorName {
		issues = append(issues, FieldIssue{
			Field:        "vendor_name",
			InvoiceValue: invoice.VendorName,
			POValue:      po.VendorName,
			Severity:     SeverityHigh,
		})
	}

	if invoice.VendorID != po.VendorID {
		issues = append(issues, FieldIssue{
			Field:        "vendor_id",
			InvoiceValue: invoice.VendorID,
			POValue:      po.VendorID,
			Severity:     SeverityHigh,
		})
	}

	if invoice.Currency != po.Currency {
		issues = append(issues, FieldIssue{
			Field:        "currency",
			InvoiceValue: invoice.Currency,
			POValue:      po.Currency,
			Severity:     SeverityHigh,
		})
	}

	if issue := compareAmountField("subtotal", invoice.Subtotal, po.Subtotal, SeverityHigh, config); issue != nil {
		issues = append(issues, *issue)
	}

	if issue := compareAmountField("tax", invoice.Tax, po.Tax, SeverityMedium, config); issue != nil {
		issues = append(issues, *issue)
	}

	if issue := compareAmountField("total_amount", invoice.TotalAmount, po.TotalAmount, SeverityHigh, config); issue != nil {
		issues = append(issues, *issue)
	}

	return issues
}

// compareAmountField applies the optional-amount semantics: both absent is
// equal, one absent is a missing-field issue, both present compares within
// tolerance.
func compareAmountField(field string, invoiceAmount, poAmount *decimal.Decimal, severity Severity, config *ComparisonConfig) *FieldIssue {
	if invoiceAmount == nil && poAmount == nil {
		return nil
	}

	if invoiceAmount == nil || poAmount == nil {
		return &FieldIssue{
			Field:        field,
			InvoiceValue: optionalAmountValue(invoiceAmount),
			POValue:      optionalAmountValue(poAmount),
			Severity:     severity,
			Missing:      true,
		}
	}

	if !config.exceedsTolerance(*invoiceAmount, *poAmount) {
		return nil
	}

	difference := invoiceAmount.Sub(*poAmount)
	return &FieldIssue{
		Field:        field,
		InvoiceValue: *invoiceAmount,
		POValue:      *poAmount,
		Difference:   &difference,
		Severity:     severity,
	}
}

func optionalAmountValue(amount *decimal.Decimal) interface{} {
	if amount == nil {
		return nil
	}
	return *amount
}
