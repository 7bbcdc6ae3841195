package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/pdf"
	"github.com/rezonia/cii-invoice/internal/schema"
)

var checkVersion int

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check CII documents against the XSD schemas and Schematron rules",
	Long: `Check emitted CII documents (XML, or PDF with an embedded invoice) with the
official validation artifacts.

The schema check runs xmllint against <schema.dir>/v<N>/invoice.xsd, the
Schematron check runs an XSLT processor with <schema.dir>/v<N>/rules.xsl.
Both tools are configured in the schema section of the config file.

The version is detected from the document unless --version is given.

Examples:
  cii-invoice check invoice.xml
  cii-invoice check invoice.pdf --version 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVar(&checkVersion, "version", 0, "Schema version to check against (default: detected)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isCIIDocument)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no documents found to check")
	}

	checker := schema.NewToolValidator(cfg.Schema.ToolConfig())
	packager := pdf.NewPackager()

	results := make([]*CheckResult, 0, len(files))
	allValid := true
	for _, file := range files {
		result, err := checkFile(cmd.Context(), checker, packager, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
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
			status := "VALID"
			if !r.Valid {
				status = "INVALID"
			}
			fmt.Printf("%s (%s): %s\n", r.File, r.Profile, status)
			for _, f := range r.Findings() {
				location := ""
				if f.Line > 0 {
					location = fmt.Sprintf("line %d: ", f.Line)
				}
				fmt.Printf("  [%s/%s] %s%s\n", f.Source, f.Severity, location, f.Message)
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("check failed for some files")
	}
	return nil
}

func checkFile(ctx context.Context, checker schema.Validator, packager *pdf.Packager, file string) (*CheckResult, error) {
	doc, _, err := readDocument(packager, file)
	if err != nil {
		return nil, err
	}

	detected, err := cii.DetectProfile(doc)
	if err != nil {
		return nil, err
	}
	profile := detected
	if checkVersion != 0 {
		if profile, err = cii.NewProfile(checkVersion, string(detected.Mode)); err != nil {
			return nil, err
		}
	}
	version := int(profile.Version)

	if ctx == nil {
		ctx = context.Background()
	}
	report, err := schema.Check(ctx, checker, doc, version)
	if err != nil {
		return nil, err
	}
	if profile.Version != detected.Version {
		report.AddWarning(fmt.Sprintf("document declares %s, checked against version %d", detected, version))
	}

	return &CheckResult{File: file, Profile: profile.String(), Report: report}, nil
}

// CheckResult holds the report for a single file
type CheckResult struct {
	File    string `json:"file"`
	Profile string `json:"profile"`
	*schema.Report
}
