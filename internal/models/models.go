// Package models defines the procurement document records exchanged by the
// reconciliation service: purchase orders, invoices, and goods received notes.
//
// All monetary values use decimal.Decimal to avoid floating-point drift in
// tolerance comparisons. Header-level amounts are pointers so a document whose
// amount was never populated is distinguishable from one stating a true zero;
// the comparator raises a distinct missing-field issue for the former.
//
// Documents are immutable once loaded. A reconciliation run reads them many
// times but never mutates them.
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Procurement documents carry amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is one ordered or billed item. ItemCode is the join key between an
// invoice's items and its purchase order's items and is expected to be unique
// within one document; Validate enforces that.
type LineItem struct {
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Validate performs basic validation on the LineItem
func (li *LineItem) Validate() error {
	if strings.TrimSpace(li.ItemCode) == "" {
		return fmt.Errorf("line item code cannot be empty")
	}

	if li.Quantity < 0 {
		return fmt.Errorf("line item %s: quantity cannot be negative", li.ItemCode)
	}

	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("line item %s: unit price cannot be negative", li.ItemCode)
	}

	if li.Total.IsNegative() {
		return fmt.Errorf("line item %s: total cannot be negative", li.ItemCode)
	}

	return nil
}

// String returns a string representation of the LineItem
func (li *LineItem) String() string {
	return fmt.Sprintf("LineItem{Code: %s, Qty: %d, UnitPrice: %s, Total: %s}",
		li.ItemCode, li.Quantity, li.UnitPrice.String(), li.Total.String())
}

// PurchaseOrder is the buyer's order to a vendor. PONumber is the unique key
// other documents reference.
type PurchaseOrder struct {
	PONumber        string           `json:"po_number"`
	PODate          string           `json:"po_date,omitempty"`
	VendorName      string           `json:"vendor_name"`
	VendorID        string           `json:"vendor_id"`
	BuyerName       string           `json:"buyer_name,omitempty"`
	Department      string           `json:"department,omitempty"`
	LineItems       []LineItem       `json:"line_items"`
	Subtotal        *decimal.Decimal `json:"subtotal,omitempty"`
	Tax             *decimal.Decimal `json:"tax,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
	Currency        string           `json:"currency"`
	DeliveryAddress string           `json:"delivery_address,omitempty"`
	DeliveryDate    string           `json:"delivery_date,omitempty"`
}

// Validate performs basic validation on the PurchaseOrder
func (po *PurchaseOrder) Validate() error {
	if strings.TrimSpace(po.PONumber) == "" {
		return fmt.Errorf("PO number cannot be empty")
	}

	if err := validateOptionalAmount("subtotal", po.Subtotal); err != nil {
		return fmt.Errorf("PO %s: %w", po.PONumber, err)
	}
	if err := validateOptionalAmount("tax", po.Tax); err != nil {
		return fmt.Errorf("PO %s: %w", po.PONumber, err)
	}
	if err := validateOptionalAmount("total_amount", po.TotalAmount); err != nil {
		return fmt.Errorf("PO %s: %w", po.PONumber, err)
	}

	if err := validateLineItems(po.LineItems); err != nil {
		return fmt.Errorf("PO %s: %w", po.PONumber, err)
	}

	return nil
}

// String returns a string representation of the PurchaseOrder
func (po *PurchaseOrder) String() string {
	return fmt.Sprintf("PurchaseOrder{Number: %s, Vendor: %s, Total: %s, Items: %d}",
		po.PONumber, po.VendorName, formatOptionalAmount(po.TotalAmount), len(po.LineItems))
}

// Invoice is the vendor's bill. POReference points at the purchase order it
// bills against and may point at nothing (an orphan invoice).
type Invoice struct {
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   string           `json:"invoice_date,omitempty"`
	POReference   string           `json:"po_reference"`
	VendorName    string           `json:"vendor_name"`
	VendorID      string           `json:"vendor_id"`
	LineItems     []LineItem       `json:"line_items"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Currency      string           `json:"currency"`
	PaymentTerms  string           `json:"payment_terms,omitempty"`
	DueDate       string           `json:"due_date,omitempty"`
}

// Validate performs basic validation on the Invoice
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return fmt.Errorf("invoice number cannot be empty")
	}

	if err := validateOptionalAmount("subtotal", inv.Subtotal); err != nil {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}
	if err := validateOptionalAmount("tax", inv.Tax); err != nil {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}
	if err := validateOptionalAmount("total_amount", inv.TotalAmount); err != nil {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}

	if err := validateLineItems(inv.LineItems); err != nil {
		return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
	}

	return nil
}

// String returns a string representation of the Invoice
func (inv *Invoice) String() string {
	return fmt.Sprintf("Invoice{Number: %s, PORef: %s, Vendor: %s, Total: %s, Items: %d}",
		inv.InvoiceNumber, inv.POReference, inv.VendorName,
		formatOptionalAmount(inv.TotalAmount), len(inv.LineItems))
}

// GRNLineItem is one received item on a goods received note
type GRNLineItem struct {
	ItemCode         string `json:"item_code"`
	Description      string `json:"description"`
	QuantityReceived int64  `json:"quantity_received"`
	QuantityRejected int64  `json:"quantity_rejected"`
	Condition        string `json:"condition"`
}

// GoodsReceivedNote confirms receipt of goods against a purchase order.
// GRNs travel in the same dataset as invoices and POs but the comparison
// engine does not consume them.
type GoodsReceivedNote struct {
	GRNNumber   string        `json:"grn_number"`
	GRNDate     string        `json:"grn_date,omitempty"`
	POReference string        `json:"po_reference"`
	VendorName  string        `json:"vendor_name"`
	ReceivedBy  string        `json:"received_by,omitempty"`
	Warehouse   string        `json:"warehouse,omitempty"`
	LineItems   []GRNLineItem `json:"line_items"`
}

// Validate performs basic validation on the GoodsReceivedNote
func (grn *GoodsReceivedNote) Validate() error {
	if strings.TrimSpace(grn.GRNNumber) == "" {
		return fmt.Errorf("GRN number cannot be empty")
	}

	for _, item := range grn.LineItems {
		if strings.TrimSpace(item.ItemCode) == "" {
			return fmt.Errorf("GRN %s: line item code cannot be empty", grn.GRNNumber)
		}
		if item.QuantityReceived < 0 || item.QuantityRejected < 0 {
			return fmt.Errorf("GRN %s: item %s quantities cannot be negative",
				grn.GRNNumber, item.ItemCode)
		}
	}

	return nil
}

// Utility functions

// Amount returns a pointer to a copy of d, for building optional amount fields
func Amount(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// AmountFromFloat returns an optional amount from a float literal
func AmountFromFloat(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func validateOptionalAmount(field string, amount *decimal.Decimal) error {
	if amount != nil && amount.IsNegative() {
		return fmt.Errorf("%s cannot be negative", field)
	}
	return nil
}

func validateLineItems(items []LineItem) error {
	seen := make(map[string]bool, len(items))

	for i := range items {
		item := &items[i]
		if err := item.Validate(); err != nil {
			return err
		}

		if seen[item.ItemCode] {
			return fmt.Errorf("duplicate item code %s in line items", item.ItemCode)
		}
		seen[item.ItemCode] = true
	}

	return nil
}

func formatOptionalAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return "<unset>"
	}
	return amount.String()
}
