package cmd

import (
	"fmt"
	"io"
	"os"

	"invoice-reconciliation-service/cmd/reconciler/config"
	"invoice-reconciliation-service/internal/loader"
	"invoice-reconciliation-service/internal/reconciler"
	"invoice-reconciliation-service/internal/reporter"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	invoicesFile    string
	poFile          string
	outputFormat    string
	outputFile      string
	amountTolerance float64
	includeMatched  bool
	vendorFilter    string
	minVariance     float64
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile invoices against purchase orders",
	Long: `Reconcile compares each invoice with its referenced purchase order and
classifies it as MATCH, MISMATCH, or ERROR, then renders a discrepancy
report.

This command requires:
- An invoices file (JSON array of invoices)
- A purchase orders file (JSON array of purchase orders)

Examples:
  # Basic reconciliation with console report
  reconciler reconcile --invoices-file invoices.json --po-file purchase_orders.json

  # JSON report written to a file
  reconciler reconcile --invoices-file inv.json --po-file po.json \
    --output-format json --output-file report.json

  # Tighten the monetary tolerance to exact matching
  reconciler reconcile --invoices-file inv.json --po-file po.json --amount-tolerance 0

  # Only mismatches for one vendor
  reconciler reconcile --invoices-file inv.json --po-file po.json \
    --vendor "Acme Supplies Ltd"

  # Only mismatches with more than $100 of variance
  reconciler reconcile --invoices-file inv.json --po-file po.json --min-variance 100`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&invoicesFile, "invoices-file", "i", "", "path to invoices JSON file (required)")
	reconcileCmd.Flags().StringVarP(&poFile, "po-file", "p", "", "path to purchase orders JSON file (required)")

	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	reconcileCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", 0.01, "absolute monetary tolerance")
	reconcileCmd.Flags().BoolVar(&includeMatched, "include-matched", false, "list matched invoices in the console report")

	reconcileCmd.Flags().StringVar(&vendorFilter, "vendor", "", "only show mismatches for this vendor (case-insensitive)")
	reconcileCmd.Flags().Float64Var(&minVariance, "min-variance", 0, "only show mismatches with variance above this amount")

	reconcileCmd.MarkFlagRequired("invoices-file")
	reconcileCmd.MarkFlagRequired("po-file")

	viper.BindPFlag("invoices-file", reconcileCmd.Flags().Lookup("invoices-file"))
	viper.BindPFlag("po-file", reconcileCmd.Flags().Lookup("po-file"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("amount-tolerance", reconcileCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("include-matched", reconcileCmd.Flags().Lookup("include-matched"))
	viper.BindPFlag("vendor", reconcileCmd.Flags().Lookup("vendor"))
	viper.BindPFlag("min-variance", reconcileCmd.Flags().Lookup("min-variance"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from the config file and environment.
	invoicesFile = viper.GetString("invoices-file")
	poFile = viper.GetString("po-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	amountTolerance = viper.GetFloat64("amount-tolerance")
	includeMatched = viper.GetBool("include-matched")
	vendorFilter = viper.GetString("vendor")
	minVariance = viper.GetFloat64("min-variance")

	if invoicesFile == "" {
		return fmt.Errorf("invoices-file is required")
	}
	if poFile == "" {
		return fmt.Errorf("po-file is required")
	}

	if err := validateFileExists(invoicesFile, "invoices file"); err != nil {
		return err
	}
	if err := validateFileExists(poFile, "purchase orders file"); err != nil {
		return err
	}

	if amountTolerance < 0 {
		return fmt.Errorf("amount-tolerance cannot be negative, got %v", amountTolerance)
	}
	if minVariance < 0 {
		return fmt.Errorf("min-variance cannot be negative, got %v", minVariance)
	}

	switch reporter.OutputFormat(outputFormat) {
	case reporter.FormatConsole, reporter.FormatJSON:
	default:
		return fmt.Errorf("unsupported output format %q (use console or json)", outputFormat)
	}

	return nil
}

func validateFileExists(path, description string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %s", description, path)
		}
		return fmt.Errorf("cannot access %s %s: %w", description, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file: %s", description, path)
	}
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log := logger.GetGlobalLogger().WithComponent("cli")

	loaderConfig, err := config.CreateLoaderConfig(invoicesFile, poFile)
	if err != nil {
		return err
	}
	engineConfig, err := config.CreateEngineConfig(amountTolerance)
	if err != nil {
		return err
	}
	reportConfig, err := config.CreateReportConfig(outputFormat, includeMatched)
	if err != nil {
		return err
	}

	datasetLoader, err := loader.NewDatasetLoader(loaderConfig)
	if err != nil {
		return err
	}

	var report *reconciler.AggregateReport
	err = logger.TimedOperation("reconciliation", log, func() error {
		dataset, loadErr := datasetLoader.Load()
		if loadErr != nil {
			return loadErr
		}

		engine := reconciler.NewEngine(engineConfig, log)
		report = engine.Reconcile(dataset.Invoices, dataset.BuildPOIndex())
		return nil
	})
	if err != nil {
		return err
	}

	output := cmd.OutOrStdout()
	if outputFile != "" {
		f, createErr := os.Create(outputFile)
		if createErr != nil {
			return fmt.Errorf("cannot create output file %s: %w", outputFile, createErr)
		}
		defer f.Close()
		output = f
	}

	if vendorFilter != "" || minVariance > 0 {
		return writeFilteredMismatches(report, output)
	}

	generator := reporter.NewReportGenerator(reportConfig)
	return generator.GenerateReport(report, output)
}

// writeFilteredMismatches prints the mismatch list that survives the vendor
// and variance filters instead of the full report.
func writeFilteredMismatches(report *reconciler.AggregateReport, w io.Writer) error {
	results := report.Mismatched
	if vendorFilter != "" {
		results = reconciler.MismatchesForVendor(report, vendorFilter)
	}
	if minVariance > 0 {
		filtered := &reconciler.AggregateReport{Mismatched: results}
		results = reconciler.MismatchesAboveVariance(filtered, decimal.NewFromFloat(minVariance))
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No mismatched invoices match the given filters.")
		return nil
	}

	fmt.Fprintf(w, "Filtered mismatches: %d\n\n", len(results))
	for idx, result := range results {
		fmt.Fprintf(w, "%d. Invoice %s → PO %s (%s): %d issues, variance %s\n",
			idx+1, result.InvoiceNumber, result.POReference, result.VendorName,
			result.TotalIssues, reconciler.Variance(result).StringFixed(2))
	}
	return nil
}
