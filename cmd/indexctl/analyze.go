package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/detect"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/ocr"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run OCR and field detection over a local document",
	Long: `Process a local image or PDF with the configured OCR engine and run
invoice field detection over the extracted text. Nothing is written to the
document repository.`,
	Example: `  # Analyze a scanned invoice
  indexctl analyze factura.png

  # Analyze with a custom timeout
  indexctl analyze factura.pdf --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeTextCmd = &cobra.Command{
	Use:   "analyze-text [file]",
	Short: "Run field detection over already-extracted text",
	Long: `Run invoice field detection over a plain-text file, skipping OCR.
Useful for checking pattern coverage against known document texts.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeText,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(analyzeTextCmd)

	analyzeCmd.Flags().Int("timeout", 60, "OCR timeout in seconds")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	ocrStart := time.Now()
	raw, err := engine.ExtractText(ctx, content, http.DetectContentType(content), cfg.OCR.Language)
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}

	analyzer := detect.NewAnalyzer(patterns.NewRegistry())
	facts := analyzer.Analyze(raw.Text)

	return printJSON(models.AnalyzeResponse{
		Success: true,
		Facts:   facts,
		OCRMs:   time.Since(ocrStart).Milliseconds(),
	})
}

func runAnalyzeText(cmd *cobra.Command, args []string) error {
	if _, err := loadCLIConfig(cmd); err != nil {
		return err
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	analyzer := detect.NewAnalyzer(patterns.NewRegistry())
	facts := analyzer.Analyze(string(text))

	return printJSON(models.AnalyzeResponse{Success: true, Facts: facts})
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
