// Command comex is the operator CLI for the document extraction and validation pipeline.
//
//	comex types
//	comex process --type PACKING_LIST --step header.json --step items.json [--save --hash H]
//	comex process --type BANK_MESSAGE --file mt103.pdf
//	comex revalidate --type DECLARATION
//	comex reassemble --type PACKING_LIST --hash H [--save]
//	comex export --type DECLARATION --out findings.csv
//	comex serve-metrics
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"comex/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "comex",
		Short:        "Trade-compliance document extraction and validation",
		SilenceUsage: true,
	}
	root.AddCommand(
		newTypesCmd(),
		newProcessCmd(),
		newRevalidateCmd(),
		newReassembleCmd(),
		newExportCmd(),
		newServeMetricsCmd(),
	)
	return root
}

func parseTypeFlag(s string) (domain.DocumentType, error) {
	t, ok := domain.ParseDocumentType(s)
	if !ok {
		return "", fmt.Errorf("unknown document type %q: %w", s, domain.ErrNotRegistered)
	}
	return t, nil
}
