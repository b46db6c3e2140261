package score

import (
	"context"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/annotate"
	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Rule contributions. Each rule is a local, independently tunable signal;
// the logic score is their plain sum, unbounded until fusion clamps it.
const (
	opinionCuePenalty  = -1.0
	factCueBonus       = 1.0
	modalVerbPenalty   = -1.0
	adjectivePenalty   = -0.5
	objectiveNounBonus = 0.5
	degreeAdvPenalty   = -0.5
)

// Dependency relations that mark a noun as subject or object of its clause.
var subjectObjectRels = map[string]bool{
	"nsubj": true,
	"csubj": true,
	"obj":   true,
	"dobj":  true,
	"iobj":  true,
}

// RuleScorer computes the signed logic score of a sentence from lexical cue
// matching plus syntactic features from the dependency annotator.
type RuleScorer struct {
	lexicon   *Lexicon
	annotator annotate.Annotator
}

// NewRuleScorer creates a rule scorer bound to a lexicon and an annotator.
func NewRuleScorer(lexicon *Lexicon, annotator annotate.Annotator) *RuleScorer {
	return &RuleScorer{lexicon: lexicon, annotator: annotator}
}

// Score accumulates the logic score for one sentence. Cue phrases count by
// existence, not occurrence frequency: a hedge repeated three times is still
// one hedge signal.
func (s *RuleScorer) Score(ctx context.Context, sentence string) (float64, error) {
	var score float64

	for _, cue := range s.lexicon.opinionCues {
		if strings.Contains(sentence, cue) {
			score += opinionCuePenalty
		}
	}
	for _, cue := range s.lexicon.factCues {
		if strings.Contains(sentence, cue) {
			score += factCueBonus
		}
	}

	words, err := s.annotator.Annotate(ctx, sentence)
	if err != nil {
		return 0, err
	}

	for _, w := range words {
		score += s.wordScore(w)
	}

	return score, nil
}

// wordScore applies the syntactic rules to one annotated word.
func (s *RuleScorer) wordScore(w model.AnnotatedWord) float64 {
	switch w.POS {
	case "VERB", "AUX":
		if hasModalMood(w.Feats) {
			return modalVerbPenalty
		}
	case "ADJ":
		return adjectivePenalty
	case "NOUN", "PROPN":
		if subjectObjectRels[w.DepRel] {
			return objectiveNounBonus
		}
	case "ADV":
		if s.lexicon.IsDegreeAdverb(w.Text) {
			return degreeAdvPenalty
		}
	}
	return 0
}

// hasModalMood reports whether the feature set carries a potential or
// subjunctive mood marker.
func hasModalMood(feats []string) bool {
	for _, f := range feats {
		if f == "Mood=Pot" || f == "Mood=Sub" {
			return true
		}
	}
	return false
}
