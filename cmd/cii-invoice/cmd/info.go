package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/pdf"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about CII documents",
	Long: `Display the profile and header data of CII documents, XML or PDF.

Shows:
  - Detected version and mode
  - Invoice number, type, issue date and currency
  - Line item count and grand total
  - Attachment name used when embedding into a PDF

Examples:
  cii-invoice info invoice.xml
  cii-invoice info *.pdf -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isCIIDocument)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	packager := pdf.NewPackager()
	infos := make([]*FileInfo, 0, len(files))
	for _, file := range files {
		infos = append(infos, fileInfo(packager, file))
	}

	if outputFormat == "json" {
		return printJSON(infos)
	}

	for _, info := range infos {
		printFileInfo(info)
		fmt.Println()
	}
	return nil
}

// FileInfo describes one inspected file
type FileInfo struct {
	File   string `json:"file"`
	Format string `json:"format,omitempty"`
	Size   int64  `json:"size"`
	Error  string `json:"error,omitempty"`
	*cii.DocumentInfo
}

func fileInfo(packager *pdf.Packager, path string) *FileInfo {
	info := &FileInfo{File: path}

	stat, err := os.Stat(path)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Size = stat.Size()

	doc, format, err := readDocument(packager, path)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Format = format

	info.DocumentInfo, err = cii.Inspect(doc)
	if err != nil {
		info.Error = err.Error()
	}
	return info
}

func printFileInfo(info *FileInfo) {
	fmt.Printf("File: %s\n", info.File)
	fmt.Printf("  Size: %d bytes\n", info.Size)
	if info.Format != "" {
		fmt.Printf("  Format: %s\n", info.Format)
	}
	if info.Error != "" {
		fmt.Printf("  Error: %s\n", info.Error)
		return
	}

	doc := info.DocumentInfo
	fmt.Printf("  Profile: %s\n", doc.Profile)
	fmt.Printf("  Guideline: %s\n", doc.GuidelineID)
	fmt.Printf("  Invoice: %s (type %s)\n", doc.InvoiceID, doc.TypeCode)
	fmt.Printf("  Issue date: %s\n", doc.IssueDate)
	fmt.Printf("  Line items: %d\n", doc.LineItemCount)
	fmt.Printf("  Grand total: %s %s\n", doc.GrandTotal, doc.Currency)
	fmt.Printf("  Attachment name: %s\n", doc.Attachment)
}
