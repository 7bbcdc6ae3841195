package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/cii-invoice/internal/schema"
	"github.com/rezonia/cii-invoice/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for rendering and checking invoices.

The API provides endpoints for:
  - POST /api/v1/invoices/render    - Render a JSON/YAML invoice as CII XML
  - POST /api/v1/invoices/validate  - Check invoice amounts
  - POST /api/v1/documents/check    - XSD and Schematron check of XML or PDF
  - POST /api/v1/documents/info     - Profile and header data of XML or PDF
  - GET  /health                    - Health check

Examples:
  # Start server on the configured address
  cii-invoice serve

  # Start on a custom port in debug mode
  cii-invoice serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from config)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:        cfg.Server.Address,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CheckTimeout:   cfg.Schema.Timeout,
		Debug:          serverDebug || cfg.Server.Mode == "debug",
		DefaultVersion: cfg.Render.Version,
		DefaultMode:    cfg.Render.Mode,
	}
	if serverAddr != "" {
		config.Address = serverAddr
	}

	checker := schema.NewToolValidator(cfg.Schema.ToolConfig())
	srv := server.NewServer(config, checker)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", config.Address)
	if checker.SchemaAvailable() {
		fmt.Println("Schema checks enabled")
	} else {
		fmt.Println("Schema checks disabled (xmllint not found)")
	}

	return srv.Run()
}
