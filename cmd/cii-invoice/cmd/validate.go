package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/pkg/invoicelib"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check that invoice amounts add up",
	Long: `Check the arithmetic of one or more invoice documents without rendering.

Checks performed, per line item:
  - charge amount = net amount x quantity
  - net amount = gross amount - discount (when discounted)
  - tax amount = charge amount x tax percent

and for the invoice:
  - tax amount = basis amount x tax percent
  - grand total = basis amount + tax amount
  - basis amount = sum of line item charges

Examples:
  cii-invoice validate invoice.yaml
  cii-invoice validate invoices/ -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isInvoiceDocument)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no invoice documents found")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
				continue
			}
			fmt.Printf("✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func validateFile(filePath string) *ValidationResult {
	result := &ValidationResult{
		File:  filePath,
		Valid: true,
	}

	inv, err := invoicelib.Load(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.Invoice = inv.ID

	checked := invoicelib.Validate(inv)
	result.Valid = checked.Valid
	result.Errors = checked.Messages

	return result
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File    string   `json:"file"`
	Invoice string   `json:"invoice,omitempty"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}
