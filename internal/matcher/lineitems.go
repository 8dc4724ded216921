package matcher

import (
	"fmt"

	"invoice-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

// MismatchType classifies a line-item discrepancy
type MismatchType string

const (
	// MismatchItem means the item appears in both documents but one or more
	// of quantity, unit price, or total differ.
	MismatchItem MismatchType = "ITEM_MISMATCH"

	// MismatchNotInPO means the invoice bills an item code the purchase
	// order never listed.
	MismatchNotInPO MismatchType = "ITEM_NOT_IN_PO"

	// MismatchNotInInvoice means the purchase order lists an item code the
	// invoice never billed.
	MismatchNotInInvoice MismatchType = "ITEM_NOT_IN_INVOICE"
)

// String returns the string representation of MismatchType
func (mt MismatchType) String() string {
	return string(mt)
}

// LineItemDiff records one field-level difference inside a matched item pair
type LineItemDiff struct {
	Field        string          `json:"field"`
	InvoiceValue decimal.Decimal `json:"invoice_value"`
	POValue      decimal.Decimal `json:"po_value"`
	Difference   decimal.Decimal `json:"difference"`
}

// LineItemMismatch is one entry in the line-item discrepancy list. The fields
// populated depend on Type: ITEM_MISMATCH carries the per-field diffs,
// ITEM_NOT_IN_PO the invoiced quantity, ITEM_NOT_IN_INVOICE the ordered
// quantity.
type LineItemMismatch struct {
	Type            MismatchType   `json:"type"`
	ItemCode        string         `json:"item_code"`
	Description     string         `json:"description"`
	InvoiceQuantity int64          `json:"invoice_quantity,omitempty"`
	POQuantity      int64          `json:"po_quantity,omitempty"`
	Issue           string         `json:"issue,omitempty"`
	Issues          []LineItemDiff `json:"issues,omitempty"`
}

// LineItemComparison summarizes the comparison of two line-item sequences
type LineItemComparison struct {
	TotalItemsInInvoice int                `json:"total_items_in_invoice"`
	TotalItemsInPO      int                `json:"total_items_in_po"`
	MatchedItems        int                `json:"matched_items"`
	Mismatches          []LineItemMismatch `json:"mismatches"`
	HasLineItemIssues   bool               `json:"has_line_item_issues"`
}

// CompareLineItems matches invoice line items against purchase order line
// items by item code and reports per-field differences.
//
// Quantity compares exactly; unit price and total compare within the
// configured tolerance. A line's stored total is treated as an independent
// field, never recomputed from quantity × unit price.
//
// Ordering is deterministic: mismatches for invoice items appear in invoice
// order, followed by PO-only items in PO order. Item codes are assumed unique
// within one document; on unvalidated input with duplicates the last
// occurrence wins, mirroring the PO index semantics.
func CompareLineItems(invoiceItems, poItems []models.LineItem, config *ComparisonConfig) *LineItemComparison {
	if config == nil {
		config = DefaultComparisonConfig()
	}

	result := &LineItemComparison{
		TotalItemsInInvoice: len(invoiceItems),
		TotalItemsInPO:      len(poItems),
		Mismatches:          []LineItemMismatch{},
	}

	poByCode := make(map[string]*models.LineItem, len(poItems))
	for i := range poItems {
		poByCode[poItems[i].ItemCode] = &poItems[i]
	}

	invoiceCodes := make(map[string]bool, len(invoiceItems))
	for i := range invoiceItems {
		invItem := &invoiceItems[i]
		invoiceCodes[invItem.ItemCode] = true

		poItem, found := poByCode[invItem.ItemCode]
		if !found {
			result.Mismatches = append(result.Mismatches, LineItemMismatch{
				Type:            MismatchNotInPO,
				ItemCode:        invItem.ItemCode,
				Description:     invItem.Description,
				InvoiceQuantity: invItem.Quantity,
				Issue:           "Item in invoice but not in referenced PO",
			})
			continue
		}

		diffs := compareItemFields(invItem, poItem, config)
		if len(diffs) > 0 {
			result.Mismatches = append(result.Mismatches, LineItemMismatch{
				Type:        MismatchItem,
				ItemCode:    invItem.ItemCode,
				Description: invItem.Description,
				Issues:      diffs,
			})
		} else {
			result.MatchedItems++
		}
	}

	for i := range poItems {
		poItem := &poItems[i]
		if !invoiceCodes[poItem.ItemCode] {
			result.Mismatches = append(result.Mismatches, LineItemMismatch{
				Type:        MismatchNotInInvoice,
				ItemCode:    poItem.ItemCode,
				Description: poItem.Description,
				POQuantity:  poItem.Quantity,
				Issue:       "Item in PO but not invoiced",
			})
		}
	}

	result.HasLineItemIssues = len(result.Mismatches) > 0
	return result
}

// compareItemFields compares the three value fields of a matched item pair
// and returns every difference, not just the first.
func compareItemFields(invItem, poItem *models.LineItem, config *ComparisonConfig) []LineItemDiff {
	var diffs []LineItemDiff

	if invItem.Quantity != poItem.Quantity {
		invQty := decimal.NewFromInt(invItem.Quantity)
		poQty := decimal.NewFromInt(poItem.Quantity)
		diffs = append(diffs, LineItemDiff{
			Field:        "quantity",
			InvoiceValue: invQty,
			POValue:      poQty,
			Difference:   invQty.Sub(poQty),
		})
	}

	if config.exceedsTolerance(invItem.UnitPrice, poItem.UnitPrice) {
		diffs = append(diffs, LineItemDiff{
			Field:        "unit_price",
			InvoiceValue: invItem.UnitPrice,
			POValue:      poItem.UnitPrice,
			Difference:   invItem.UnitPrice.Sub(poItem.UnitPrice),
		})
	}

	if config.exceedsTolerance(invItem.Total, poItem.Total) {
		diffs = append(diffs, LineItemDiff{
			Field:        "total",
			InvoiceValue: invItem.Total,
			POValue:      poItem.Total,
			Difference:   invItem.Total.Sub(poItem.Total),
		})
	}

	return diffs
}

// FormatDiff renders a line item diff for human-readable reports
func (d *LineItemDiff) FormatDiff() string {
	sign := ""
	if d.Difference.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s: Invoice=%s vs PO=%s (Diff: %s%s)",
		d.Field, d.InvoiceValue.String(), d.POValue.String(), sign, d.Difference.String())
}
