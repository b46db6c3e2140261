package model

// AnnotatedWord is the narrow view of one token produced by the dependency
// annotator. Only the four fields the rule scorer consumes are kept; the
// annotator's full output shape stays behind the annotate package boundary.
type AnnotatedWord struct {
	Text   string   `json:"text"`            // Surface form
	POS    string   `json:"pos"`             // Universal POS tag (NOUN, VERB, ADJ, ADV, ...)
	DepRel string   `json:"dep"`             // Dependency relation to the head (nsubj, obj, ...)
	Feats  []string `json:"feats,omitempty"` // Morphological features (e.g. "Mood=Pot")
}

// Class indices of a probability vector.
const (
	ClassNotFact = 0
	ClassFact    = 1
)

// ClassProbs is a two-class probability distribution (not-fact, fact)
// produced by a single classifier for a single sentence.
type ClassProbs [2]float64

// Fact returns the probability mass assigned to the fact class.
func (p ClassProbs) Fact() float64 {
	return p[ClassFact]
}

// Valid reports whether the vector is a well-formed distribution:
// both entries in [0,1] and summing to 1 within a small tolerance.
func (p ClassProbs) Valid() bool {
	for _, v := range p {
		if v < 0 || v > 1 {
			return false
		}
	}
	sum := p[0] + p[1]
	return sum > 0.999 && sum < 1.001
}

// ScoredSentence is the final per-sentence output record.
type ScoredSentence struct {
	Index        int     `json:"index"`         // Position in the segmented input (0-based)
	Text         string  `json:"text"`          // The sentence, terminator included
	LogicScore   float64 `json:"logic_score"`   // Signed rule-based score, unbounded
	EnsembleProb float64 `json:"ensemble_prob"` // Averaged fact probability from the ensemble
	AdjustedProb float64 `json:"adjusted_prob"` // Fused probability, clamped to [0,1]
}

// FactLeaning reports whether the fused probability favors the fact class.
func (s ScoredSentence) FactLeaning() bool {
	return s.AdjustedProb >= 0.5
}
