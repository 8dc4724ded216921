// Package generator produces synthetic procurement datasets (purchase orders,
// invoices, goods received notes) with controlled discrepancy scenarios, for
// demos and for exercising the reconciliation pipeline end to end.
//
// Generation is deterministic for a given seed. Each mismatch scenario mirrors
// a real procurement failure mode: vendors raising prices after the PO was
// cut, shipping more than ordered, billing for items never ordered, and
// invoices that reference no known PO at all.
package generator

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Config controls dataset size and the scenario distribution
type Config struct {
	// POCount is the number of purchase orders to generate.
	POCount int `json:"po_count"`

	// PerfectInvoices through OrphanInvoices set how many invoices of each
	// scenario to produce. The first four consume POs in order, so their sum
	// must not exceed POCount. Orphans reference POs that were never
	// generated.
	PerfectInvoices    int `json:"perfect_invoices"`
	PriceMismatches    int `json:"price_mismatches"`
	QuantityMismatches int `json:"quantity_mismatches"`
	Overbilled         int `json:"overbilled"`
	OrphanInvoices     int `json:"orphan_invoices"`

	// Seed drives the random source; equal seeds give equal datasets.
	Seed int64 `json:"seed"`

	// TaxRates is the pool of tax rates applied when totaling documents.
	TaxRates []float64 `json:"tax_rates"`
}

// DefaultConfig returns the standard scenario distribution: 50 POs, 30
// perfect invoices, 7 price mismatches, 5 quantity mismatches, 3 overbilled,
// 8 orphans, plus one duplicated invoice.
func DefaultConfig() *Config {
	return &Config{
		POCount:            50,
		PerfectInvoices:    30,
		PriceMismatches:    7,
		QuantityMismatches: 5,
		Overbilled:         3,
		OrphanInvoices:     8,
		Seed:               42,
		TaxRates:           []float64{0.0, 0.05, 0.08, 0.10, 0.13},
	}
}

// Validate validates the generator configuration
func (c *Config) Validate() error {
	if c.POCount <= 0 {
		return fmt.Errorf("po count must be positive, got %d", c.POCount)
	}

	for name, count := range map[string]int{
		"perfect invoices":    c.PerfectInvoices,
		"price mismatches":    c.PriceMismatches,
		"quantity mismatches": c.QuantityMismatches,
		"overbilled invoices": c.Overbilled,
		"orphan invoices":     c.OrphanInvoices,
	} {
		if count < 0 {
			return fmt.Errorf("%s count cannot be negative, got %d", name, count)
		}
	}

	poBacked := c.PerfectInvoices + c.PriceMismatches + c.QuantityMismatches + c.Overbilled
	if poBacked > c.POCount {
		return fmt.Errorf("po-backed invoice scenarios (%d) exceed po count (%d)", poBacked, c.POCount)
	}

	if len(c.TaxRates) == 0 {
		return fmt.Errorf("at least one tax rate is required")
	}
	for _, rate := range c.TaxRates {
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("tax rate must be in [0, 1), got %v", rate)
		}
	}

	return nil
}

// Dataset is one generated document collection
type Dataset struct {
	PurchaseOrders []*models.PurchaseOrder
	Invoices       []*models.Invoice
	GRNs           []*models.GoodsReceivedNote
}

// Generator produces synthetic datasets from a seeded random source
type Generator struct {
	config *Config
	rng    *rand.Rand
	logger logger.Logger

	poCounter      int
	invoiceCounter int
	grnCounter     int

	// poTaxRates remembers the tax rate applied to each PO so invoices built
	// from it tax consistently; a perfect invoice must reproduce the PO's
	// totals exactly.
	poTaxRates map[string]float64
}

// anchorDate fixes the document timeline so generation never depends on the
// wall clock.
var anchorDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// NewGenerator creates a generator. A nil config falls back to defaults.
func NewGenerator(config *Config, log logger.Logger) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "generator", err.Error(), err)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Generator{
		config:         config,
		rng:            rand.New(rand.NewSource(config.Seed)),
		logger:         log.WithComponent("generator"),
		poCounter:      1000,
		invoiceCounter: 5000,
		grnCounter:     8000,
		poTaxRates:     make(map[string]float64),
	}, nil
}

// GenerateDataset builds the full document set in a fixed order so a given
// seed always yields the same dataset.
func (g *Generator) GenerateDataset() *Dataset {
	dataset := &Dataset{}

	for i := 0; i < g.config.POCount; i++ {
		dataset.PurchaseOrders = append(dataset.PurchaseOrders, g.generatePO())
	}

	pos := dataset.PurchaseOrders
	cursor := 0
	for _, scenario := range []struct {
		name  string
		count int
	}{
		{scenarioPerfect, g.config.PerfectInvoices},
		{scenarioPriceMismatch, g.config.PriceMismatches},
		{scenarioQuantityMismatch, g.config.QuantityMismatches},
		{scenarioOverbilling, g.config.Overbilled},
	} {
		for i := 0; i < scenario.count; i++ {
			dataset.Invoices = append(dataset.Invoices, g.generateInvoice(pos[cursor], scenario.name))
			cursor++
		}
	}

	for i := 0; i < g.config.OrphanInvoices; i++ {
		dataset.Invoices = append(dataset.Invoices, g.generateOrphanInvoice())
	}

	// One duplicated invoice under a fresh number, mimicking a vendor
	// submitting the same bill twice.
	if len(dataset.Invoices) > 5 {
		dataset.Invoices = append(dataset.Invoices, g.duplicateInvoice(dataset.Invoices[5]))
	}

	g.generateGRNs(dataset)

	g.logger.WithFields(logger.Fields{
		"purchase_orders": len(dataset.PurchaseOrders),
		"invoices":        len(dataset.Invoices),
		"grns":            len(dataset.GRNs),
		"seed":            g.config.Seed,
	}).Info("Synthetic dataset generated")

	return dataset
}

const (
	scenarioPerfect          = "perfect"
	scenarioPriceMismatch    = "price_mismatch"
	scenarioQuantityMismatch = "quantity_mismatch"
	scenarioOverbilling      = "overbilling"
)

func (g *Generator) generatePO() *models.PurchaseOrder {
	g.poCounter++
	v := vendorPool[g.rng.Intn(len(vendorPool))]
	lineItems := g.generateLineItems(0)
	taxRate := g.pickTaxRate()
	subtotal, tax, total := calcTotals(lineItems, taxRate)

	poDate := anchorDate.AddDate(0, 0, -g.randomInt(30, 90))
	deliveryDate := poDate.AddDate(0, 0, g.randomInt(10, 30))

	poNumber := fmt.Sprintf("PO-2024-%05d", g.poCounter)
	g.poTaxRates[poNumber] = taxRate

	return &models.PurchaseOrder{
		PONumber:        poNumber,
		PODate:          poDate.Format("2006-01-02"),
		VendorName:      v.Name,
		VendorID:        v.ID,
		BuyerName:       personPool[g.rng.Intn(len(personPool))],
		Department:      departmentPool[g.rng.Intn(len(departmentPool))],
		LineItems:       lineItems,
		Subtotal:        models.Amount(subtotal),
		Tax:             models.Amount(tax),
		TotalAmount:     models.Amount(total),
		Currency:        "USD",
		DeliveryAddress: addressPool[g.rng.Intn(len(addressPool))],
		DeliveryDate:    deliveryDate.Format("2006-01-02"),
	}
}

// generateInvoice copies the PO's line items and applies the scenario's
// corruption before recomputing the invoice totals. The recomputed totals are
// internally consistent, so the discrepancy surfaces as a genuine
// invoice-vs-PO difference rather than bad arithmetic.
func (g *Generator) generateInvoice(po *models.PurchaseOrder, scenario string) *models.Invoice {
	g.invoiceCounter++

	poDate, _ := time.Parse("2006-01-02", po.PODate)
	invoiceDate := poDate.AddDate(0, 0, g.randomInt(5, 25))

	lineItems := make([]models.LineItem, len(po.LineItems))
	copy(lineItems, po.LineItems)

	switch scenario {
	case scenarioPriceMismatch:
		idx := g.rng.Intn(len(lineItems))
		uplift := decimal.NewFromFloat(1.05 + g.rng.Float64()*0.10)
		lineItems[idx].UnitPrice = lineItems[idx].UnitPrice.Mul(uplift).Round(2)
		lineItems[idx].Total = lineItems[idx].UnitPrice.Mul(decimal.NewFromInt(lineItems[idx].Quantity)).Round(2)

	case scenarioQuantityMismatch:
		idx := g.rng.Intn(len(lineItems))
		lineItems[idx].Quantity += int64(g.randomInt(1, 5))
		lineItems[idx].Total = lineItems[idx].UnitPrice.Mul(decimal.NewFromInt(lineItems[idx].Quantity)).Round(2)

	case scenarioOverbilling:
		lineItems = append(lineItems, g.generateExtraItem(lineItems))
	}

	subtotal, tax, total := calcTotals(lineItems, g.poTaxRates[po.PONumber])

	return &models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%06d", g.invoiceCounter),
		InvoiceDate:   invoiceDate.Format("2006-01-02"),
		POReference:   po.PONumber,
		VendorName:    po.VendorName,
		VendorID:      po.VendorID,
		LineItems:     lineItems,
		Subtotal:      models.Amount(subtotal),
		Tax:           models.Amount(tax),
		TotalAmount:   models.Amount(total),
		Currency:      po.Currency,
		PaymentTerms:  paymentTermsPool[g.rng.Intn(len(paymentTermsPool))],
		DueDate:       invoiceDate.AddDate(0, 0, 30).Format("2006-01-02"),
	}
}

// generateOrphanInvoice bills against a PO number in the reserved 9xxxx range
// that generatePO never assigns, so the reference can never resolve.
func (g *Generator) generateOrphanInvoice() *models.Invoice {
	g.invoiceCounter++
	v := vendorPool[g.rng.Intn(len(vendorPool))]
	lineItems := g.generateLineItems(0)
	subtotal, tax, total := calcTotals(lineItems, g.pickTaxRate())

	invoiceDate := anchorDate.AddDate(0, 0, -g.randomInt(10, 60))

	return &models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%06d", g.invoiceCounter),
		InvoiceDate:   invoiceDate.Format("2006-01-02"),
		POReference:   fmt.Sprintf("PO-2024-%05d", 90000+g.rng.Intn(10000)),
		VendorName:    v.Name,
		VendorID:      v.ID,
		LineItems:     lineItems,
		Subtotal:      models.Amount(subtotal),
		Tax:           models.Amount(tax),
		TotalAmount:   models.Amount(total),
		Currency:      "USD",
		PaymentTerms:  "Net 30",
		DueDate:       invoiceDate.AddDate(0, 0, 30).Format("2006-01-02"),
	}
}

func (g *Generator) duplicateInvoice(original *models.Invoice) *models.Invoice {
	g.invoiceCounter++
	duplicate := *original
	duplicate.LineItems = make([]models.LineItem, len(original.LineItems))
	copy(duplicate.LineItems, original.LineItems)
	duplicate.InvoiceNumber = fmt.Sprintf("INV-%06d", g.invoiceCounter)
	return &duplicate
}

// generateGRNs produces receipts for the leading POs: roughly 70% confirmed
// in full, then a band of partial deliveries, then a band of quality
// rejections.
func (g *Generator) generateGRNs(dataset *Dataset) {
	pos := dataset.PurchaseOrders

	perfect := len(pos) * 7 / 10
	partial := len(pos) * 12 / 100
	quality := len(pos) * 8 / 100

	cursor := 0
	for _, band := range []struct {
		scenario string
		count    int
	}{
		{grnPerfect, perfect},
		{grnPartialDelivery, partial},
		{grnQualityIssue, quality},
	} {
		for i := 0; i < band.count && cursor < len(pos); i++ {
			dataset.GRNs = append(dataset.GRNs, g.generateGRN(pos[cursor], band.scenario))
			cursor++
		}
	}
}

const (
	grnPerfect         = "perfect"
	grnPartialDelivery = "partial_delivery"
	grnQualityIssue    = "quality_issue"
)

func (g *Generator) generateGRN(po *models.PurchaseOrder, scenario string) *models.GoodsReceivedNote {
	g.grnCounter++

	deliveryDate, _ := time.Parse("2006-01-02", po.DeliveryDate)
	grnDate := deliveryDate.AddDate(0, 0, g.rng.Intn(3))

	lineItems := make([]models.GRNLineItem, 0, len(po.LineItems))
	for _, item := range po.LineItems {
		received := item.Quantity
		rejected := int64(0)

		switch scenario {
		case grnPartialDelivery:
			received = int64(float64(item.Quantity) * (0.7 + g.rng.Float64()*0.2))
		case grnQualityIssue:
			rejected = int64(float64(item.Quantity) * (0.1 + g.rng.Float64()*0.1))
			received = item.Quantity - rejected
		}

		condition := "Good"
		if rejected > 0 {
			condition = "Damaged/Defective"
		}

		lineItems = append(lineItems, models.GRNLineItem{
			ItemCode:         item.ItemCode,
			Description:      item.Description,
			QuantityReceived: received,
			QuantityRejected: rejected,
			Condition:        condition,
		})
	}

	return &models.GoodsReceivedNote{
		GRNNumber:   fmt.Sprintf("GRN-%05d", g.grnCounter),
		GRNDate:     grnDate.Format("2006-01-02"),
		POReference: po.PONumber,
		VendorName:  po.VendorName,
		ReceivedBy:  personPool[g.rng.Intn(len(personPool))],
		Warehouse:   warehousePool[g.rng.Intn(len(warehousePool))],
		LineItems:   lineItems,
	}
}

// generateLineItems picks count distinct products (1-4 when count is zero)
// and prices each inside its catalog range.
func (g *Generator) generateLineItems(count int) []models.LineItem {
	if count <= 0 {
		count = g.randomInt(1, 4)
	}
	if count > len(productPool) {
		count = len(productPool)
	}

	indices := g.rng.Perm(len(productPool))[:count]

	items := make([]models.LineItem, 0, count)
	for _, idx := range indices {
		p := productPool[idx]
		quantity := int64(g.randomInt(1, 15))
		unitPrice := decimal.NewFromFloat(p.PriceMin + g.rng.Float64()*(p.PriceMax-p.PriceMin)).Round(2)

		items = append(items, models.LineItem{
			ItemCode:    p.Code,
			Description: p.Name,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Total:       unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2),
		})
	}

	return items
}

// pickTaxRate draws one rate from the configured pool.
func (g *Generator) pickTaxRate() float64 {
	return g.config.TaxRates[g.rng.Intn(len(g.config.TaxRates))]
}

// generateExtraItem picks a product not already present on the document, so
// an overbilled invoice stays structurally valid while billing something the
// PO never ordered.
func (g *Generator) generateExtraItem(existing []models.LineItem) models.LineItem {
	used := make(map[string]bool, len(existing))
	for _, item := range existing {
		used[item.ItemCode] = true
	}

	candidates := make([]product, 0, len(productPool))
	for _, p := range productPool {
		if !used[p.Code] {
			candidates = append(candidates, p)
		}
	}

	p := candidates[g.rng.Intn(len(candidates))]
	quantity := int64(g.randomInt(1, 5))
	unitPrice := decimal.NewFromFloat(p.PriceMin + g.rng.Float64()*(p.PriceMax-p.PriceMin)).Round(2)

	return models.LineItem{
		ItemCode:    p.Code,
		Description: p.Name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2),
	}
}

// calcTotals sums the line totals and applies the given tax rate.
func calcTotals(items []models.LineItem, taxRate float64) (subtotal, tax, total decimal.Decimal) {
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}

	tax = subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	total = subtotal.Add(tax).Round(2)
	return subtotal, tax, total
}

// randomInt returns a uniform integer in [min, max].
func (g *Generator) randomInt(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// WriteDataset generates a dataset and writes purchase_orders.json,
// invoices.json, and grns.json into dir, creating it if needed.
func (g *Generator) WriteDataset(dir string) (*Dataset, error) {
	dataset := g.GenerateDataset()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.FileError(errors.CodeDirectoryError, dir, err)
	}

	files := []struct {
		name string
		data interface{}
	}{
		{"purchase_orders.json", dataset.PurchaseOrders},
		{"invoices.json", dataset.Invoices},
		{"grns.json", dataset.GRNs},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		payload, err := json.MarshalIndent(f.data, "", "  ")
		if err != nil {
			return nil, errors.InternalError(errors.CodeProcessingError, "encoding "+f.name, err)
		}
		if err := os.WriteFile(path, payload, 0644); err != nil {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		g.logger.WithField("path", path).Info("Wrote dataset file")
	}

	return dataset, nil
}
