package cmd

import (
	"fmt"
	"os"

	"github.com/rezonia/cii-invoice/internal/pdf"
)

// readDocument returns the CII XML in an XML file, or embedded in a PDF
func readDocument(packager *pdf.Packager, path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	if !pdf.IsPDF(data) {
		return data, "xml", nil
	}

	attachment, err := packager.ExtractInvoiceFromBytes(data)
	if err != nil {
		return nil, "", err
	}
	printVerbose("%s: using embedded %s\n", path, attachment.Name)
	return attachment.Data, "pdf", nil
}
