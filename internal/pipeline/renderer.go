package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Renderer writes reports as JSON, Markdown, and a stdout summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	b.WriteString("# 事实/观点分析报告\n\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "- Source: %s\n", report.Source)
	}
	fmt.Fprintf(&b, "- Analyzed: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Sentences: %d (fact-leaning %d, opinion-leaning %d)\n",
		report.Summary.SentenceCount, report.Summary.FactLeaning, report.Summary.OpinionLeaning)
	fmt.Fprintf(&b, "- Mean adjusted probability: %.3f\n\n", report.Summary.MeanAdjusted)

	b.WriteString("| # | Sentence | Logic | Ensemble | Adjusted | Leaning |\n")
	b.WriteString("|---|----------|-------|----------|----------|--------|\n")
	for _, s := range report.Sentences {
		leaning := "opinion"
		if s.FactLeaning() {
			leaning = "fact"
		}
		fmt.Fprintf(&b, "| %d | %s | %+.1f | %.3f | %.3f | %s |\n",
			s.Index+1, escapePipes(s.Text), s.LogicScore, s.EnsembleProb, s.AdjustedProb, leaning)
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Adjusted probability = clamp(ensemble + weight x logic, 0, 1). ")
		b.WriteString("The logic score is a transparent sum of lexical and syntactic cues.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nSentences analyzed: %d\n", report.Summary.SentenceCount)
	fmt.Printf("  Fact-leaning:    %d\n", report.Summary.FactLeaning)
	fmt.Printf("  Opinion-leaning: %d\n", report.Summary.OpinionLeaning)
	fmt.Printf("  Mean adjusted:   %.3f\n\n", report.Summary.MeanAdjusted)

	for _, s := range report.Sentences {
		marker := "○"
		if s.FactLeaning() {
			marker = "●"
		}
		fmt.Printf("%s %.3f  %s\n", marker, s.AdjustedProb, s.Text)
	}
}

// RenderReport renders the report to the configured outputs.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
