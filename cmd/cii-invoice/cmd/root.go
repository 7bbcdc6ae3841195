package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/config"
	"github.com/rezonia/cii-invoice/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	configFile   string
	verbose      bool
	outputFormat string

	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "cii-invoice",
	Short: "Render and check ZUGFeRD / XRechnung invoices",
	Long: `cii-invoice turns invoice documents (JSON or YAML) into Cross Industry
Invoice XML for ZUGFeRD 1, ZUGFeRD 2 / Factur-X and XRechnung, after checking
that their amounts add up.

Examples:
  # Render an invoice as XRechnung 3.0
  cii-invoice render invoice.yaml --version 3 --mode xrechnung

  # Check the amounts of several invoices
  cii-invoice validate invoices/

  # Embed the rendered XML into a PDF
  cii-invoice attach invoice.pdf invoice.yaml -o invoice-zugferd.pdf

  # Run the emitted XML through the official schemas
  cii-invoice check invoice.xml`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: ./cii-invoice.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.NewConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logging.LogConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	return logger.Setup(logCfg)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
