package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/logger"
	"github.com/rezonia/cii-invoice/internal/pdf"
	"github.com/rezonia/cii-invoice/pkg/invoicelib"
)

var attachOutput string

var attachCmd = &cobra.Command{
	Use:   "attach <pdf> <invoice>",
	Short: "Embed an invoice into a PDF",
	Long: `Embed CII XML into a PDF as a file attachment.

The invoice is either an already rendered XML file or an invoice document
(JSON or YAML), which is rendered first with --version and --mode. The
attachment gets the conventional name for the profile, e.g. factur-x.xml
or xrechnung.xml.

Examples:
  cii-invoice attach invoice.pdf invoice.yaml -o invoice-zugferd.pdf
  cii-invoice attach invoice.pdf invoice.xml -o invoice-xrechnung.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)

	attachCmd.Flags().StringVarP(&attachOutput, "output", "o", "", "Output PDF (required)")
	attachCmd.Flags().IntVar(&renderVersion, "version", 0, "CII version 1, 2 or 3 (default from config)")
	attachCmd.Flags().StringVar(&renderMode, "mode", "", "zugferd or xrechnung (default from config)")
	_ = attachCmd.MarkFlagRequired("output")
}

func runAttach(cmd *cobra.Command, args []string) error {
	pdfFile, invoiceFile := args[0], args[1]

	var (
		doc     []byte
		profile cii.Profile
		err     error
	)

	if isInvoiceDocument(invoiceFile) {
		mode := renderMode
		if mode == "" {
			mode = cfg.Render.Mode
		}
		profile, err = cii.NewProfile(renderSetting(renderVersion, cfg.Render.Version), mode)
		if err != nil {
			return err
		}

		inv, err := invoicelib.Load(invoiceFile)
		if err != nil {
			return err
		}
		doc, err = cii.SerializeProfile(inv, profile, cii.WithLogger(logger.WithComponent("cii")))
		if err != nil {
			return fmt.Errorf("failed to render %s: %s", invoiceFile, describeError(err))
		}
	} else {
		doc, err = os.ReadFile(invoiceFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		profile, err = cii.DetectProfile(doc)
		if err != nil {
			return err
		}
	}

	name := profile.AttachmentName()
	if err := pdf.NewPackager().Attach(pdfFile, attachOutput, doc, name); err != nil {
		return err
	}

	fmt.Printf("✓ %s: embedded %s (%s)\n", attachOutput, name, profile)
	return nil
}
