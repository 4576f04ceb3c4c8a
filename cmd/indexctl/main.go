// indexctl is the operations CLI for the document indexing service: run
// field detection over local files or text, and drive bulk update batches
// without going through the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/config"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

var version = "1.2.0"

var rootCmd = &cobra.Command{
	Use:     "indexctl",
	Short:   "Operations CLI for the invoice indexing service",
	Long:    `indexctl runs invoice field detection and bulk index updates from the command line, using the same configuration as the service.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: $CONFIG_PATH or config.yaml)")
}

// loadCLIConfig resolves the config path from the flag, the environment or
// the default, and sets up logging.
func loadCLIConfig(cmd *cobra.Command) (*models.Config, error) {
	_ = godotenv.Load()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
