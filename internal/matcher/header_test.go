package matcher

import (
	"testing"

	"invoice-reconciliation-service/internal/models"

	"github.com/shopspring/decimal"
)

func createTestHeaderPair() (*models.Invoice, *models.PurchaseOrder) {
	invoice := &models.Invoice{
		InvoiceNumber: "INV-005001",
		POReference:   "PO-2024-01001",
		VendorName:    "Acme Supplies Ltd",
		VendorID:      "V-1001",
		Currency:      "USD",
		Subtotal:      models.AmountFromFloat(1000.00),
		Tax:           models.AmountFromFloat(80.00),
		TotalAmount:   models.AmountFromFloat(1080.00),
	}

	po := &models.PurchaseOrder{
		PONumber:    "PO-2024-01001",
		VendorName:  "Acme Supplies Ltd",
		VendorID:    "V-1001",
		Currency:    "USD",
		Subtotal:    models.AmountFromFloat(1000.00),
		Tax:         models.AmountFromFloat(80.00),
		TotalAmount: models.AmountFromFloat(1080.00),
	}

	return invoice, po
}

func TestCompareHeaders_IdenticalDocuments(t *testing.T) {
	invoice, po := createTestHeaderPair()

	issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

	if len(issues) != 0 {
		t.Errorf("expected no issues for identical headers, got %d: %v", len(issues), issues)
	}
}

func TestCompareHeaders_StringFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Invoice)
		field    string
		severity Severity
	}{
		{
			name:     "vendor name mismatch",
			mutate:   func(inv *models.Invoice) { inv.VendorName = "Global Tech Solutions" },
			field:    "vendor_name",
			severity: SeverityHigh,
		},
		{
			name:     "vendor id mismatch",
			mutate:   func(inv *models.Invoice) { inv.VendorID = "V-1002" },
			field:    "vendor_id",
			severity: SeverityHigh,
		},
		{
			name:     "currency mismatch",
			mutate:   func(inv *models.Invoice) { inv.Currency = "EUR" },
			field:    "currency",
			severity: SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice, po := createTestHeaderPair()
			tt.mutate(invoice)

			issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

			if len(issues) != 1 {
				t.Fatalf("expected 1 issue, got %d", len(issues))
			}

			if issues[0].Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, issues[0].Field)
			}

			if issues[0].Severity != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, issues[0].Severity)
			}

			if issues[0].Difference != nil {
				t.Error("string field issues should carry no numeric difference")
			}
		})
	}
}

func TestCompareHeaders_AmountSeverities(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Invoice)
		field    string
		severity Severity
		diff     string
	}{
		{
			name:     "subtotal mismatch is high severity",
			mutate:   func(inv *models.Invoice) { inv.Subtotal = models.AmountFromFloat(1100.00) },
			field:    "subtotal",
			severity: SeverityHigh,
			diff:     "100",
		},
		{
			name:     "tax mismatch is medium severity",
			mutate:   func(inv *models.Invoice) { inv.Tax = models.AmountFromFloat(90.00) },
			field:    "tax",
			severity: SeverityMedium,
			diff:     "10",
		},
		{
			name:     "total mismatch is high severity",
			mutate:   func(inv *models.Invoice) { inv.TotalAmount = models.AmountFromFloat(1000.00) },
			field:    "total_amount",
			severity: SeverityHigh,
			diff:     "-80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice, po := createTestHeaderPair()
			tt.mutate(invoice)

			issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

			if len(issues) != 1 {
				t.Fatalf("expected 1 issue, got %d", len(issues))
			}

			issue := issues[0]
			if issue.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, issue.Field)
			}

			if issue.Severity != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, issue.Severity)
			}

			if issue.Difference == nil {
				t.Fatal("amount issue should carry a signed difference")
			}

			if issue.Difference.String() != tt.diff {
				t.Errorf("expected difference %s, got %s", tt.diff, issue.Difference.String())
			}
		})
	}
}

func TestCompareHeaders_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		name        string
		invoiceVal  float64
		poVal       float64
		expectIssue bool
	}{
		{"difference below tolerance", 1000.005, 1000.00, false},
		{"difference exactly at tolerance", 1000.01, 1000.00, false},
		{"difference just above tolerance", 1000.011, 1000.00, true},
		{"large difference", 1010.00, 1000.00, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice, po := createTestHeaderPair()
			invoice.TotalAmount = models.AmountFromFloat(tt.invoiceVal)
			po.TotalAmount = models.AmountFromFloat(tt.poVal)

			issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

			hasIssue := false
			for _, issue := range issues {
				if issue.Field == "total_amount" {
					hasIssue = true
				}
			}

			if hasIssue != tt.expectIssue {
				t.Errorf("expected issue=%v for diff %v vs %v", tt.expectIssue, tt.invoiceVal, tt.poVal)
			}
		})
	}
}

func TestCompareHeaders_MissingAmounts(t *testing.T) {
	t.Run("one side missing raises missing-field issue", func(t *testing.T) {
		invoice, po := createTestHeaderPair()
		invoice.Subtotal = nil

		issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

		if len(issues) != 1 {
			t.Fatalf("expected 1 issue, got %d", len(issues))
		}

		issue := issues[0]
		if issue.Field != "subtotal" || !issue.Missing {
			t.Errorf("expected missing subtotal issue, got %+v", issue)
		}

		if issue.Severity != SeverityHigh {
			t.Errorf("missing subtotal should carry the field's severity, got %s", issue.Severity)
		}

		if issue.Difference != nil {
			t.Error("missing-field issues carry no difference")
		}
	})

	t.Run("both sides missing compares equal", func(t *testing.T) {
		invoice, po := createTestHeaderPair()
		invoice.Tax = nil
		po.Tax = nil

		issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

		if len(issues) != 0 {
			t.Errorf("expected no issues when both sides omit tax, got %v", issues)
		}
	})

	t.Run("zero amount is not missing", func(t *testing.T) {
		invoice, po := createTestHeaderPair()
		invoice.Tax = models.AmountFromFloat(0.00)
		po.Tax = nil

		issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

		if len(issues) != 1 || !issues[0].Missing {
			t.Errorf("zero vs absent must raise a missing-field issue, got %v", issues)
		}
	})
}

func TestCompareHeaders_MultipleIndependentIssues(t *testing.T) {
	invoice, po := createTestHeaderPair()
	invoice.VendorName = "Different Vendor"
	invoice.Tax = models.AmountFromFloat(95.00)
	invoice.TotalAmount = models.AmountFromFloat(1095.00)

	issues := CompareHeaders(invoice, po, DefaultComparisonConfig())

	if len(issues) != 3 {
		t.Fatalf("expected 3 independent issues, got %d", len(issues))
	}

	// Issues appear in fixed field order.
	expectedFields := []string{"vendor_name", "tax", "total_amount"}
	for i, field := range expectedFields {
		if issues[i].Field != field {
			t.Errorf("issue %d: expected field %s, got %s", i, field, issues[i].Field)
		}
	}
}

func TestComparisonConfig_Validate(t *testing.T) {
	config := DefaultComparisonConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	config.AmountTolerance = decimal.NewFromFloat(-0.01)
	if err := config.Validate(); err == nil {
		t.Error("negative tolerance should fail validation")
	}
}

func TestComparisonConfig_Clone(t *testing.T) {
	config := DefaultComparisonConfig()
	clone := config.Clone()

	clone.AmountTolerance = decimal.NewFromFloat(0.5)

	if config.AmountTolerance.Equal(clone.AmountTolerance) {
		t.Error("modifying clone should not affect original")
	}
}
