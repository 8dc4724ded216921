package cmd

import (
	"fmt"

	"invoice-reconciliation-service/cmd/reconciler/config"
	"invoice-reconciliation-service/internal/generator"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the generate command
var (
	outputDir          string
	poCount            int
	perfectInvoices    int
	priceMismatches    int
	quantityMismatches int
	overbilled         int
	orphanInvoices     int
	seed               int64
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic procurement dataset",
	Long: `Generate writes a synthetic dataset of purchase orders, invoices, and
goods received notes with controlled discrepancy scenarios, suitable for
demos and for exercising the reconcile command.

The same seed always produces the same dataset.

Examples:
  # Default dataset: 50 POs, 45 PO-backed invoices, 8 orphans, 1 duplicate
  reconciler generate --output-dir data/synthetic

  # Larger dataset with a custom seed
  reconciler generate --output-dir /tmp/demo --po-count 200 \
    --perfect-invoices 120 --price-mismatches 30 --seed 7`,

	PreRunE: validateGenerateFlags,
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	defaults := generator.DefaultConfig()

	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "directory to write the dataset into (required)")
	generateCmd.Flags().IntVar(&poCount, "po-count", defaults.POCount, "number of purchase orders")
	generateCmd.Flags().IntVar(&perfectInvoices, "perfect-invoices", defaults.PerfectInvoices, "invoices that match their PO exactly")
	generateCmd.Flags().IntVar(&priceMismatches, "price-mismatches", defaults.PriceMismatches, "invoices with a unit price uplift")
	generateCmd.Flags().IntVar(&quantityMismatches, "quantity-mismatches", defaults.QuantityMismatches, "invoices billing more units than ordered")
	generateCmd.Flags().IntVar(&overbilled, "overbilled", defaults.Overbilled, "invoices billing an item the PO never listed")
	generateCmd.Flags().IntVar(&orphanInvoices, "orphan-invoices", defaults.OrphanInvoices, "invoices referencing a PO that does not exist")
	generateCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "random seed for reproducible datasets")

	generateCmd.MarkFlagRequired("output-dir")

	viper.BindPFlag("output-dir", generateCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
}

func validateGenerateFlags(cmd *cobra.Command, args []string) error {
	if viper.GetString("output-dir") != "" {
		outputDir = viper.GetString("output-dir")
	}
	if outputDir == "" {
		return fmt.Errorf("output-dir is required")
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	generatorConfig, err := config.CreateGeneratorConfig(config.GeneratorOptions{
		POCount:            poCount,
		PerfectInvoices:    perfectInvoices,
		PriceMismatches:    priceMismatches,
		QuantityMismatches: quantityMismatches,
		Overbilled:         overbilled,
		OrphanInvoices:     orphanInvoices,
		Seed:               seed,
	})
	if err != nil {
		return err
	}

	gen, err := generator.NewGenerator(generatorConfig, nil)
	if err != nil {
		return err
	}

	dataset, err := gen.WriteDataset(outputDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset written to %s\n", outputDir)
	fmt.Fprintf(out, "  Purchase Orders: %d\n", len(dataset.PurchaseOrders))
	fmt.Fprintf(out, "  Invoices: %d\n", len(dataset.Invoices))
	fmt.Fprintf(out, "  Goods Received Notes: %d\n", len(dataset.GRNs))
	return nil
}
