package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zw021029/know-more-about-our-futures/internal/pipeline"
	"github.com/zw021029/know-more-about-our-futures/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOutDir      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple documents from a file concurrently",
	Long: `Batch reads documents from a file (blank-line separated, # for comments)
and analyzes them concurrently. One JSON report is written per document;
results are reported in file order.

Example:
  factfuse batch articles.txt
  factfuse batch articles.txt --concurrency 4 --out-dir reports/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "documents analyzed in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "reports", "directory for per-document JSON reports")

	// Shared pipeline flags
	batchCmd.Flags().Float64Var(&fusionWeight, "weight", 0, "fusion weight for the logic score (default from config)")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sentence workers per document (default from config)")
	batchCmd.Flags().StringVar(&ensembleBackend, "ensemble-backend", "", "classifier backend (http, openai)")
	batchCmd.Flags().IntVar(&ensembleSize, "ensemble-size", 0, "number of ensemble members")
	batchCmd.Flags().StringVar(&ensembleURL, "ensemble-endpoint", "", "inference server base URL")
	batchCmd.Flags().StringVar(&annotatorURL, "annotator-endpoint", "", "dependency annotator base URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the annotation cache")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist annotations to this directory")
}

func runBatch(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, batchConcurrency)
	results, err := processor.ProcessFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	failed := 0
	for i, result := range results {
		if result.Err() != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Err())
			continue
		}

		jsonPath := filepath.Join(batchOutDir, fmt.Sprintf("report-%03d.json", i+1))
		if err := p.RenderReport(result.Report, jsonPath, "", false); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: render: %v\n", result.Source, err)
			failed++
			continue
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s (%d sentences, %d fact-leaning)\n",
				result.Source, jsonPath,
				result.Report.Summary.SentenceCount, result.Report.Summary.FactLeaning)
		}
	}

	fmt.Printf("\nBatch complete: %d analyzed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}

	return nil
}
