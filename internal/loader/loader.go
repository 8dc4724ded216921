// Package loader reads the invoice and purchase order collections into memory
// and builds the index the reconciliation engine resolves PO references
// against.
//
// The collections are JSON arrays produced upstream (synthetic generator,
// extraction pipeline, or API export). Loading happens once per run; the
// returned Dataset and POIndex are never mutated afterwards and are safe to
// share across concurrent reconciliation calls.
//
// Example usage:
//
//	ldr, err := loader.NewDatasetLoader(&loader.Config{
//		InvoicesFile:       "data/invoices.json",
//		PurchaseOrdersFile: "data/purchase_orders.json",
//	})
//	dataset, err := ldr.Load()
//	index := dataset.BuildPOIndex()
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"
)

// Config holds configuration for loading the document collections
type Config struct {
	InvoicesFile       string `json:"invoices_file"`
	PurchaseOrdersFile string `json:"purchase_orders_file"`

	// ValidateDocuments runs model validation on every loaded record.
	// Invalid records are reported but do not abort the load; the comparison
	// contract assumes inputs were validated upstream.
	ValidateDocuments bool `json:"validate_documents"`

	// MaxValidationErrors caps how many validation problems are collected
	MaxValidationErrors int `json:"max_validation_errors"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ValidateDocuments:   true,
		MaxValidationErrors: 100,
	}
}

// Validate validates the loader configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InvoicesFile) == "" {
		return fmt.Errorf("invoices file path is required")
	}

	if strings.TrimSpace(c.PurchaseOrdersFile) == "" {
		return fmt.Errorf("purchase orders file path is required")
	}

	if c.MaxValidationErrors <= 0 {
		return fmt.Errorf("max validation errors must be positive, got %d", c.MaxValidationErrors)
	}

	return nil
}

// CollectionSource supplies the two record collections. The file-backed
// implementation is the production path; tests feed in-memory collections.
type CollectionSource interface {
	Invoices() ([]*models.Invoice, error)
	PurchaseOrders() ([]*models.PurchaseOrder, error)
}

// FileSource reads collections from JSON files on disk
type FileSource struct {
	invoicesFile       string
	purchaseOrdersFile string
}

// NewFileSource creates a FileSource for the given file paths
func NewFileSource(invoicesFile, purchaseOrdersFile string) *FileSource {
	return &FileSource{
		invoicesFile:       invoicesFile,
		purchaseOrdersFile: purchaseOrdersFile,
	}
}

// Invoices reads the invoice collection
func (fs *FileSource) Invoices() ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	if err := readJSONCollection(fs.invoicesFile, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// PurchaseOrders reads the purchase order collection
func (fs *FileSource) PurchaseOrders() ([]*models.PurchaseOrder, error) {
	var pos []*models.PurchaseOrder
	if err := readJSONCollection(fs.purchaseOrdersFile, &pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func readJSONCollection(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return errors.FileError(errors.CodeFilePermission, path, err)
		}
		return errors.FileError(errors.CodeDirectoryError, path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return errors.FileError(errors.CodeFilePermission, path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.ParseError(errors.CodeInvalidFormat, path, err)
	}

	return nil
}

// Dataset holds the loaded collections for one reconciliation run.
// Collections keep their source order; the engine iterates invoices in this
// order when aggregating.
type Dataset struct {
	Invoices       []*models.Invoice
	PurchaseOrders []*models.PurchaseOrder

	// ValidationErrors holds per-record validation problems found during
	// loading when validation is enabled. They are advisory.
	ValidationErrors []*errors.ReconcilerError
}

// POIndex maps po_number to its purchase order
type POIndex map[string]*models.PurchaseOrder

// BuildPOIndex builds the lookup index from PO number to purchase order.
// Duplicate PO numbers are not expected but not rejected: the last record wins,
// matching the collection semantics upstream systems rely on.
func (d *Dataset) BuildPOIndex() POIndex {
	index := make(POIndex, len(d.PurchaseOrders))
	for _, po := range d.PurchaseOrders {
		index[po.PONumber] = po
	}
	return index
}

// Resolve looks up a PO reference, reporting whether it exists
func (idx POIndex) Resolve(poReference string) (*models.PurchaseOrder, bool) {
	po, ok := idx[poReference]
	return po, ok
}

// DatasetLoader loads and optionally validates the document collections
type DatasetLoader struct {
	source CollectionSource
	config *Config
	logger logger.Logger
}

// NewDatasetLoader creates a loader reading from the files named in config
func NewDatasetLoader(config *Config) (*DatasetLoader, error) {
	if config == nil {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig, "loader", nil, nil)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "loader", config, err)
	}

	return &DatasetLoader{
		source: NewFileSource(config.InvoicesFile, config.PurchaseOrdersFile),
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("loader"),
	}, nil
}

// NewDatasetLoaderFromSource creates a loader over an arbitrary source
func NewDatasetLoaderFromSource(source CollectionSource, config *Config) *DatasetLoader {
	if config == nil {
		config = DefaultConfig()
	}

	return &DatasetLoader{
		source: source,
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("loader"),
	}
}

// Load obtains both collections. A collection that cannot be obtained aborts
// the whole run; validation findings on individual records do not.
func (dl *DatasetLoader) Load() (*Dataset, error) {
	invoices, err := dl.source.Invoices()
	if err != nil {
		return nil, errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFileNotFound,
			"failed to load invoices")
	}

	purchaseOrders, err := dl.source.PurchaseOrders()
	if err != nil {
		return nil, errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFileNotFound,
			"failed to load purchase orders")
	}

	dataset := &Dataset{
		Invoices:       invoices,
		PurchaseOrders: purchaseOrders,
	}

	if dl.config.ValidateDocuments {
		dataset.ValidationErrors = dl.validateDataset(dataset)
	}

	dl.logger.WithFields(logger.Fields{
		"invoices":          len(invoices),
		"purchase_orders":   len(purchaseOrders),
		"validation_errors": len(dataset.ValidationErrors),
	}).Info("Loaded document collections")

	return dataset, nil
}

func (dl *DatasetLoader) validateDataset(dataset *Dataset) []*errors.ReconcilerError {
	collector := errors.NewCollector(dl.config.MaxValidationErrors)

	for _, po := range dataset.PurchaseOrders {
		if err := po.Validate(); err != nil {
			validationErr := errors.ValidationError(errors.CodeInvalidData, "purchase_order", po.PONumber, err)
			dl.logger.WithError(err).WithField("po_number", po.PONumber).Warn("Invalid purchase order")
			if !collector.Add(validationErr) {
				return collector.GetErrors()
			}
		}
	}

	for _, inv := range dataset.Invoices {
		if err := inv.Validate(); err != nil {
			validationErr := errors.ValidationError(errors.CodeInvalidData, "invoice", inv.InvoiceNumber, err)
			dl.logger.WithError(err).WithField("invoice_number", inv.InvoiceNumber).Warn("Invalid invoice")
			if !collector.Add(validationErr) {
				return collector.GetErrors()
			}
		}
	}

	return collector.GetErrors()
}
