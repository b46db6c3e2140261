package score

import "github.com/zw021029/know-more-about-our-futures/internal/model"

// Lexicon holds the immutable cue lists the rule scorer matches against.
// It is built once from configuration and never mutated afterwards, so it is
// safe to share across concurrent scoring tasks.
type Lexicon struct {
	opinionCues   []string
	factCues      []string
	degreeAdverbs map[string]bool
}

// NewLexicon builds a lexicon from the configured cue lists.
func NewLexicon(cfg model.LexiconConfig) *Lexicon {
	adverbs := make(map[string]bool, len(cfg.DegreeAdverbs))
	for _, a := range cfg.DegreeAdverbs {
		adverbs[a] = true
	}

	return &Lexicon{
		opinionCues:   append([]string(nil), cfg.OpinionCues...),
		factCues:      append([]string(nil), cfg.FactCues...),
		degreeAdverbs: adverbs,
	}
}

// IsDegreeAdverb reports whether the surface form is a configured
// degree/intensity adverb.
func (l *Lexicon) IsDegreeAdverb(surface string) bool {
	return l.degreeAdverbs[surface]
}
