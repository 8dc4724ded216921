package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func createTestPurchaseOrder() *PurchaseOrder {
	return &PurchaseOrder{
		PONumber:    "PO-2024-01001",
		PODate:      "2024-03-01",
		VendorName:  "Acme Supplies Ltd",
		VendorID:    "V-1001",
		Currency:    "USD",
		Subtotal:    AmountFromFloat(1000.00),
		Tax:         AmountFromFloat(80.00),
		TotalAmount: AmountFromFloat(1080.00),
		LineItems: []LineItem{
			{
				ItemCode:    "IT-001",
				Description: "Dell Laptop XPS 15",
				Quantity:    2,
				UnitPrice:   decimal.NewFromFloat(500.00),
				Total:       decimal.NewFromFloat(1000.00),
			},
		},
	}
}

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItem
		expectErr bool
	}{
		{
			name: "valid item",
			item: LineItem{
				ItemCode:  "IT-001",
				Quantity:  3,
				UnitPrice: decimal.NewFromFloat(100.00),
				Total:     decimal.NewFromFloat(300.00),
			},
			expectErr: false,
		},
		{
			name:      "empty item code",
			item:      LineItem{Quantity: 1},
			expectErr: true,
		},
		{
			name: "negative quantity",
			item: LineItem{
				ItemCode: "IT-001",
				Quantity: -1,
			},
			expectErr: true,
		},
		{
			name: "negative unit price",
			item: LineItem{
				ItemCode:  "IT-001",
				Quantity:  1,
				UnitPrice: decimal.NewFromFloat(-5.00),
			},
			expectErr: true,
		},
		{
			name: "zero quantity is allowed",
			item: LineItem{
				ItemCode: "IT-002",
				Quantity: 0,
			},
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPurchaseOrder_Validate(t *testing.T) {
	po := createTestPurchaseOrder()
	if err := po.Validate(); err != nil {
		t.Errorf("valid PO should pass validation: %v", err)
	}

	empty := &PurchaseOrder{}
	if err := empty.Validate(); err == nil {
		t.Error("PO without number should fail validation")
	}

	negative := createTestPurchaseOrder()
	negative.TotalAmount = AmountFromFloat(-10.00)
	if err := negative.Validate(); err == nil {
		t.Error("PO with negative total should fail validation")
	}
}

func TestPurchaseOrder_Validate_DuplicateItemCodes(t *testing.T) {
	po := createTestPurchaseOrder()
	po.LineItems = append(po.LineItems, LineItem{
		ItemCode:  "IT-001",
		Quantity:  5,
		UnitPrice: decimal.NewFromFloat(10.00),
		Total:     decimal.NewFromFloat(50.00),
	})

	if err := po.Validate(); err == nil {
		t.Error("duplicate item codes should fail validation")
	}
}

func TestInvoice_Validate(t *testing.T) {
	inv := &Invoice{
		InvoiceNumber: "INV-005001",
		POReference:   "PO-2024-01001",
		VendorName:    "Acme Supplies Ltd",
		VendorID:      "V-1001",
		Currency:      "USD",
		TotalAmount:   AmountFromFloat(1080.00),
		LineItems: []LineItem{
			{
				ItemCode:  "IT-001",
				Quantity:  2,
				UnitPrice: decimal.NewFromFloat(500.00),
				Total:     decimal.NewFromFloat(1000.00),
			},
		},
	}

	if err := inv.Validate(); err != nil {
		t.Errorf("valid invoice should pass validation: %v", err)
	}

	inv.InvoiceNumber = "  "
	if err := inv.Validate(); err == nil {
		t.Error("invoice with blank number should fail validation")
	}
}

func TestInvoice_JSONRoundTrip(t *testing.T) {
	original := &Invoice{
		InvoiceNumber: "INV-005001",
		POReference:   "PO-2024-01001",
		VendorName:    "Acme Supplies Ltd",
		VendorID:      "V-1001",
		Currency:      "USD",
		Subtotal:      AmountFromFloat(1000.00),
		Tax:           AmountFromFloat(80.00),
		TotalAmount:   AmountFromFloat(1080.00),
		LineItems: []LineItem{
			{
				ItemCode:    "IT-001",
				Description: "Dell Laptop XPS 15",
				Quantity:    2,
				UnitPrice:   decimal.NewFromFloat(500.00),
				Total:       decimal.NewFromFloat(1000.00),
			},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Invoice
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.InvoiceNumber != original.InvoiceNumber {
		t.Errorf("invoice number changed: %s", decoded.InvoiceNumber)
	}

	if decoded.TotalAmount == nil || !decoded.TotalAmount.Equal(*original.TotalAmount) {
		t.Errorf("total amount changed: %v", decoded.TotalAmount)
	}

	if len(decoded.LineItems) != 1 || !decoded.LineItems[0].UnitPrice.Equal(decimal.NewFromFloat(500.00)) {
		t.Error("line items changed in round trip")
	}
}

func TestInvoice_UnmarshalMissingAmounts(t *testing.T) {
	payload := `{
		"invoice_number": "INV-005002",
		"po_reference": "PO-2024-01001",
		"vendor_name": "Acme Supplies Ltd",
		"vendor_id": "V-1001",
		"currency": "USD",
		"line_items": []
	}`

	var inv Invoice
	if err := json.Unmarshal([]byte(payload), &inv); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// Absent amounts must stay nil so the comparator can tell "missing" from zero.
	if inv.Subtotal != nil || inv.Tax != nil || inv.TotalAmount != nil {
		t.Error("absent amounts should unmarshal as nil")
	}
}

func TestGoodsReceivedNote_Validate(t *testing.T) {
	grn := &GoodsReceivedNote{
		GRNNumber:   "GRN-08001",
		POReference: "PO-2024-01001",
		VendorName:  "Acme Supplies Ltd",
		Warehouse:   "WH-EAST",
		LineItems: []GRNLineItem{
			{
				ItemCode:         "IT-001",
				QuantityReceived: 2,
				QuantityRejected: 0,
				Condition:        "Good",
			},
		},
	}

	if err := grn.Validate(); err != nil {
		t.Errorf("valid GRN should pass validation: %v", err)
	}

	grn.LineItems[0].QuantityRejected = -1
	if err := grn.Validate(); err == nil {
		t.Error("GRN with negative rejected quantity should fail validation")
	}
}
