package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/logger"
	"github.com/rezonia/cii-invoice/internal/model"
	"github.com/rezonia/cii-invoice/internal/validation"
	"github.com/rezonia/cii-invoice/pkg/invoicelib"
)

var (
	renderVersion  int
	renderMode     string
	outputPath     string
	skipValidation bool
	concurrency    int
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render invoice documents as CII XML",
	Long: `Render one or more invoice documents (JSON or YAML) as CII XML.

Amounts are checked before anything is written. The first inconsistency
found is reported, e.g.

  tax amount and calculated tax amount deviate: 4.00 / 3.80

Versions and modes:
  1 zugferd|xrechnung   ZUGFeRD 1.0
  2 zugferd             ZUGFeRD 2.x (EN 16931)
  2 xrechnung           XRechnung 2.3
  3 zugferd             Factur-X / ZUGFeRD 2.3
  3 xrechnung           XRechnung 3.0 (PEPPOL)

Examples:
  cii-invoice render invoice.yaml
  cii-invoice render invoice.json --version 3 --mode xrechnung -o invoice.xml
  cii-invoice render invoices/ -o out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&renderVersion, "version", 0, "CII version 1, 2 or 3 (default from config)")
	renderCmd.Flags().StringVar(&renderMode, "mode", "", "zugferd or xrechnung (default from config)")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, or directory for several inputs (default: stdout / next to input)")
	renderCmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Render without checking amounts")
	renderCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Documents rendered in parallel (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isInvoiceDocument)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no invoice documents found")
	}

	printVerbose("Found %d documents to render\n", len(files))

	invoices := make([]*model.Invoice, len(files))
	failed := 0
	for i, file := range files {
		inv, err := invoicelib.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", file, err)
			failed++
			continue
		}
		invoices[i] = inv
	}

	opts := invoicelib.BatchOptions{
		Version:     renderSetting(renderVersion, cfg.Render.Version),
		Mode:        renderMode,
		Concurrency: renderSetting(concurrency, cfg.Batch.Concurrency),
	}
	if opts.Mode == "" {
		opts.Mode = cfg.Render.Mode
	}
	opts.Render = append(opts.Render, cii.WithLogger(logger.WithComponent("cii")))
	if skipValidation {
		opts.Render = append(opts.Render, invoicelib.WithSkipValidation())
	}

	results, err := invoicelib.RenderBatch(context.Background(), invoices, opts)
	if err != nil {
		return err
	}

	for _, result := range results {
		file := files[result.Index]
		if invoices[result.Index] == nil {
			continue
		}
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", file, describeError(result.Err))
			continue
		}

		target, err := renderTarget(file, len(files))
		if err != nil {
			return err
		}
		if target == "" {
			if _, err := os.Stdout.Write(result.XML); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(target, result.XML, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		printVerbose("✓ %s -> %s\n", file, target)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(files))
	}
	return nil
}

func renderSetting(flag, fallback int) int {
	if flag != 0 {
		return flag
	}
	return fallback
}

// renderTarget decides where the XML for one input goes. Empty means stdout.
func renderTarget(input string, count int) (string, error) {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".xml"

	if outputPath == "" {
		if count == 1 {
			return "", nil
		}
		return filepath.Join(filepath.Dir(input), name), nil
	}

	if count == 1 && !strings.HasSuffix(outputPath, string(filepath.Separator)) {
		if info, err := os.Stat(outputPath); err != nil || !info.IsDir() {
			return outputPath, nil
		}
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(outputPath, name), nil
}

func describeError(err error) string {
	if messages := validation.Messages(err); len(messages) > 0 {
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
