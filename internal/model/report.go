package model

import "time"

// Report is the complete result of analyzing one document.
type Report struct {
	Source     string           `json:"source,omitempty"` // File path, "stdin", or "arg"
	AnalyzedAt time.Time        `json:"analyzed_at"`
	Sentences  []ScoredSentence `json:"sentences"`
	Summary    Summary          `json:"summary"`
}

// Summary aggregates per-sentence results for quick inspection.
type Summary struct {
	SentenceCount  int     `json:"sentence_count"`
	FactLeaning    int     `json:"fact_leaning"`
	OpinionLeaning int     `json:"opinion_leaning"`
	MeanAdjusted   float64 `json:"mean_adjusted"`
}

// Summarize computes the summary for a set of scored sentences.
func Summarize(sentences []ScoredSentence) Summary {
	s := Summary{SentenceCount: len(sentences)}
	if len(sentences) == 0 {
		return s
	}

	var total float64
	for _, sent := range sentences {
		total += sent.AdjustedProb
		if sent.FactLeaning() {
			s.FactLeaning++
		} else {
			s.OpinionLeaning++
		}
	}
	s.MeanAdjusted = total / float64(len(sentences))

	return s
}
