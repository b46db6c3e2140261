package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
	"github.com/zw021029/know-more-about-our-futures/internal/pipeline"
)

var (
	inFile          string
	outJSON         string
	outMD           string
	analyzeTimeout  time.Duration
	fusionWeight    float64
	workers         int
	ensembleBackend string
	ensembleSize    int
	ensembleURL     string
	ensembleModel   string
	annotatorURL    string
	noCache         bool
	cacheDir        string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Classify the sentences of one document as fact or opinion",
	Long: `Analyze segments the input into sentences, scores each sentence with the
classifier ensemble and the linguistic rule scorer, and fuses both signals
into one adjusted fact probability per sentence. Results keep input order.

The text is taken from the argument, or from --file when given.

Example:
  factfuse analyze "根据最新的数据，他们的市场份额正在扩大。"
  factfuse analyze --file article.txt --json report.json --md report.md
  factfuse analyze "我觉得这个产品很棒。" --weight 0.2 --workers 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input/output flags
	analyzeCmd.Flags().StringVar(&inFile, "file", "", "read the document from a file instead of the argument")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")

	// Pipeline flags
	analyzeCmd.Flags().Float64Var(&fusionWeight, "weight", 0, "fusion weight for the logic score (default from config)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "concurrent sentence workers (default from config)")

	// Backend flags
	analyzeCmd.Flags().StringVar(&ensembleBackend, "ensemble-backend", "", "classifier backend (http, openai)")
	analyzeCmd.Flags().IntVar(&ensembleSize, "ensemble-size", 0, "number of ensemble members")
	analyzeCmd.Flags().StringVar(&ensembleURL, "ensemble-endpoint", "", "inference server base URL")
	analyzeCmd.Flags().StringVar(&ensembleModel, "ensemble-model", "", "model name for the openai backend")
	analyzeCmd.Flags().StringVar(&annotatorURL, "annotator-endpoint", "", "dependency annotator base URL")

	// Cache flags
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the annotation cache")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist annotations to this directory")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, source, err := readInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Ensemble: %s x%d\n", cfg.Ensemble.Backend, cfg.Ensemble.Size)
		fmt.Fprintf(os.Stderr, "Fusion weight: %v\n", cfg.Fusion.Weight)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	report, err := p.AnalyzeText(ctx, text)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	report.Source = source

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented %d sentences\n", report.Summary.SentenceCount)
		fmt.Fprintf(os.Stderr, "✓ Fact-leaning: %d, opinion-leaning: %d\n",
			report.Summary.FactLeaning, report.Summary.OpinionLeaning)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// readInput resolves the document text from the argument or --file.
func readInput(args []string) (text, source string, err error) {
	if inFile != "" {
		data, err := os.ReadFile(inFile)
		if err != nil {
			return "", "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), inFile, nil
	}
	if len(args) == 1 {
		return args[0], "arg", nil
	}
	return "", "", fmt.Errorf("no input: pass the text as an argument or use --file")
}

// buildConfig merges defaults, config file/env, and CLI flags.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Zero is a valid weight (disables the rule signal), so the flag counts
	// as set only when the user passed it.
	if cmd.Flags().Changed("weight") {
		cfg.Fusion.Weight = fusionWeight
	}
	if workers != 0 {
		cfg.Concurrency.Workers = workers
	}
	if ensembleBackend != "" {
		cfg.Ensemble.Backend = ensembleBackend
	}
	if ensembleSize != 0 {
		cfg.Ensemble.Size = ensembleSize
	}
	if ensembleURL != "" {
		cfg.Ensemble.Endpoint = ensembleURL
	}
	if ensembleModel != "" {
		cfg.Ensemble.Model = ensembleModel
	}
	if annotatorURL != "" {
		cfg.Annotator.Endpoint = annotatorURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}

	if cfg.Ensemble.Backend == "openai" && cfg.Ensemble.APIKey == "" {
		cfg.Ensemble.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Ensemble.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}
