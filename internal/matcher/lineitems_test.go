package matcher

import (
	"strings"
	"testing"

	"invoice-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

func createTestLineItems() []models.LineItem {
	return []models.LineItem{
		{
			ItemCode:    "IT-001",
			Description: "Laptop Computer 15-inch",
			Quantity:    2,
			UnitPrice:   decimal.NewFromFloat(500.00),
			Total:       decimal.NewFromFloat(1000.00),
		},
		{
			ItemCode:    "IT-002",
			Description: "Wireless Mouse",
			Quantity:    10,
			UnitPrice:   decimal.NewFromFloat(25.00),
			Total:       decimal.NewFromFloat(250.00),
		},
	}
}

func TestCompareLineItems_PerfectMatch(t *testing.T) {
	invoiceItems := createTestLineItems()
	poItems := createTestLineItems()

	result := CompareLineItems(invoiceItems, poItems, DefaultComparisonConfig())

	if result.TotalItemsInInvoice != 2 || result.TotalItemsInPO != 2 {
		t.Errorf("unexpected item counts: invoice=%d po=%d", result.TotalItemsInInvoice, result.TotalItemsInPO)
	}

	if result.MatchedItems != 2 {
		t.Errorf("expected 2 matched items, got %d", result.MatchedItems)
	}

	if len(result.Mismatches) != 0 {
		t.Errorf("expected no mismatches, got %v", result.Mismatches)
	}

	if result.HasLineItemIssues {
		t.Error("perfect match should report no line item issues")
	}
}

func TestCompareLineItems_EmptySequences(t *testing.T) {
	result := CompareLineItems(nil, nil, DefaultComparisonConfig())

	if result.MatchedItems != 0 || result.HasLineItemIssues {
		t.Errorf("empty comparison should be a trivial match: %+v", result)
	}

	if result.Mismatches == nil {
		t.Error("mismatch list should be initialized, not nil")
	}
}

func TestCompareLineItems_QuantityMismatch(t *testing.T) {
	invoiceItems := createTestLineItems()
	invoiceItems[1].Quantity = 13

	result := CompareLineItems(invoiceItems, createTestLineItems(), DefaultComparisonConfig())

	if result.MatchedItems != 1 {
		t.Errorf("expected 1 matched item, got %d", result.MatchedItems)
	}

	if len(result.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(result.Mismatches))
	}

	mismatch := result.Mismatches[0]
	if mismatch.Type != MismatchItem || mismatch.ItemCode != "IT-002" {
		t.Errorf("unexpected mismatch: %+v", mismatch)
	}

	if len(mismatch.Issues) != 1 {
		t.Fatalf("expected 1 field diff, got %d", len(mismatch.Issues))
	}

	diff := mismatch.Issues[0]
	if diff.Field != "quantity" || diff.Difference.String() != "3" {
		t.Errorf("unexpected quantity diff: %+v", diff)
	}
}

func TestCompareLineItems_AllFieldDiffsReported(t *testing.T) {
	invoiceItems := createTestLineItems()
	invoiceItems[0].Quantity = 3
	invoiceItems[0].UnitPrice = decimal.NewFromFloat(550.00)
	invoiceItems[0].Total = decimal.NewFromFloat(1650.00)

	result := CompareLineItems(invoiceItems, createTestLineItems(), DefaultComparisonConfig())

	if len(result.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(result.Mismatches))
	}

	issues := result.Mismatches[0].Issues
	if len(issues) != 3 {
		t.Fatalf("every differing field must be reported, got %d diffs", len(issues))
	}

	fields := []string{issues[0].Field, issues[1].Field, issues[2].Field}
	expected := []string{"quantity", "unit_price", "total"}
	for i := range expected {
		if fields[i] != expected[i] {
			t.Errorf("diff %d: expected %s, got %s", i, expected[i], fields[i])
		}
	}
}

func TestCompareLineItems_ToleranceOnAmounts(t *testing.T) {
	tests := []struct {
		name        string
		priceDelta  float64
		expectIssue bool
	}{
		{"within tolerance", 0.01, false},
		{"above tolerance", 0.02, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoiceItems := createTestLineItems()
			invoiceItems[0].UnitPrice = invoiceItems[0].UnitPrice.Add(decimal.NewFromFloat(tt.priceDelta))

			result := CompareLineItems(invoiceItems, createTestLineItems(), DefaultComparisonConfig())

			hasIssue := len(result.Mismatches) > 0
			if hasIssue != tt.expectIssue {
				t.Errorf("expected issue=%v for price delta %v", tt.expectIssue, tt.priceDelta)
			}
		})
	}
}

func TestCompareLineItems_ItemNotInPO(t *testing.T) {
	invoiceItems := createTestLineItems()
	invoiceItems = append(invoiceItems, models.LineItem{
		ItemCode:    "IT-099",
		Description: "Premium Support Package",
		Quantity:    1,
		UnitPrice:   decimal.NewFromFloat(300.00),
		Total:       decimal.NewFromFloat(300.00),
	})

	result := CompareLineItems(invoiceItems, createTestLineItems(), DefaultComparisonConfig())

	if result.MatchedItems != 2 {
		t.Errorf("expected 2 matched items, got %d", result.MatchedItems)
	}

	if len(result.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(result.Mismatches))
	}

	mismatch := result.Mismatches[0]
	if mismatch.Type != MismatchNotInPO {
		t.Errorf("expected %s, got %s", MismatchNotInPO, mismatch.Type)
	}

	if mismatch.ItemCode != "IT-099" || mismatch.InvoiceQuantity != 1 {
		t.Errorf("unexpected mismatch detail: %+v", mismatch)
	}
}

func TestCompareLineItems_ItemNotInInvoice(t *testing.T) {
	poItems := createTestLineItems()
	poItems = append(poItems, models.LineItem{
		ItemCode:    "IT-050",
		Description: "HDMI Cable 2m",
		Quantity:    5,
		UnitPrice:   decimal.NewFromFloat(12.00),
		Total:       decimal.NewFromFloat(60.00),
	})

	result := CompareLineItems(createTestLineItems(), poItems, DefaultComparisonConfig())

	if len(result.Mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(result.Mismatches))
	}

	mismatch := result.Mismatches[0]
	if mismatch.Type != MismatchNotInInvoice {
		t.Errorf("expected %s, got %s", MismatchNotInInvoice, mismatch.Type)
	}

	if mismatch.ItemCode != "IT-050" || mismatch.POQuantity != 5 {
		t.Errorf("unexpected mismatch detail: %+v", mismatch)
	}
}

func TestCompareLineItems_DeterministicOrdering(t *testing.T) {
	invoiceItems := []models.LineItem{
		{ItemCode: "IT-B", Description: "B", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
		{ItemCode: "IT-A", Description: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
	}
	poItems := []models.LineItem{
		{ItemCode: "IT-D", Description: "D", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
		{ItemCode: "IT-C", Description: "C", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
	}

	result := CompareLineItems(invoiceItems, poItems, DefaultComparisonConfig())

	if len(result.Mismatches) != 4 {
		t.Fatalf("expected 4 mismatches, got %d", len(result.Mismatches))
	}

	// Invoice-only items in invoice order, then PO-only items in PO order.
	expectedCodes := []string{"IT-B", "IT-A", "IT-D", "IT-C"}
	for i, code := range expectedCodes {
		if result.Mismatches[i].ItemCode != code {
			t.Errorf("mismatch %d: expected %s, got %s", i, code, result.Mismatches[i].ItemCode)
		}
	}
}

func TestCompareLineItems_NilConfigUsesDefault(t *testing.T) {
	result := CompareLineItems(createTestLineItems(), createTestLineItems(), nil)

	if result.MatchedItems != 2 || result.HasLineItemIssues {
		t.Errorf("nil config should fall back to defaults: %+v", result)
	}
}

func TestLineItemDiff_FormatDiff(t *testing.T) {
	diff := LineItemDiff{
		Field:        "unit_price",
		InvoiceValue: decimal.NewFromFloat(550.00),
		POValue:      decimal.NewFromFloat(500.00),
		Difference:   decimal.NewFromFloat(50.00),
	}

	formatted := diff.FormatDiff()
	if !strings.Contains(formatted, "unit_price") || !strings.Contains(formatted, "+50") {
		t.Errorf("unexpected format: %s", formatted)
	}

	negative := LineItemDiff{
		Field:        "total",
		InvoiceValue: decimal.NewFromFloat(900.00),
		POValue:      decimal.NewFromFloat(1000.00),
		Difference:   decimal.NewFromFloat(-100.00),
	}

	formatted = negative.FormatDiff()
	if !strings.Contains(formatted, "Diff: -100") {
		t.Errorf("negative diff should render without plus sign: %s", formatted)
	}
}
