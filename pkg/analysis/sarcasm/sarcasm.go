package sarcasm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
)

const (
	CategoryPunctuation    = "punctuation"
	CategoryCapitalization = "capitalization"
	CategoryRepetition     = "repetition"
	CategoryContradictions = "contradictions"
	CategoryMarkers        = "sarcasm_markers"
	CategoryIrony          = "irony_patterns"
	CategoryExaggeration   = "exaggeration"
)

const (
	IndicatorPunctuation    = "punctuation_patterns"
	IndicatorCapitalization = "capitalization_patterns"
	IndicatorRepetition     = "repetition_patterns"

	heuristicIndicatorFloor = 0.3
)

var (
	repeatedExclamation = regexp.MustCompile(`!{2,}`)
	repeatedQuestion    = regexp.MustCompile(`\?{2,}`)
	ellipsis            = regexp.MustCompile(`\.{3,}`)
	mixedPunctuation    = regexp.MustCompile(`[!?]{2,}`)
	alternatingCase     = regexp.MustCompile(`\b[a-z][A-Z][a-z][A-Z]`)
)

type SarcasmResult struct {
	IsSarcastic    bool               `json:"is_sarcastic"`
	Confidence     float64            `json:"confidence"`
	Indicators     []string           `json:"indicators"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
}

// Scorer scores text for sarcasm and irony. The text is analyzed verbatim so
// capitalization and punctuation cues survive.
type Scorer struct {
	rules *Rules
}

func New(rules *Rules) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

func (s *Scorer) Analyze(text string) SarcasmResult {
	if strings.TrimSpace(text) == "" {
		return SarcasmResult{
			Indicators:     []string{},
			ScoreBreakdown: map[string]float64{},
		}
	}

	lower := strings.ToLower(text)
	indicators := make([]string, 0)
	scores := make(map[string]float64, 7)

	punct := Punctuation(text)
	scores[CategoryPunctuation] = punct
	if punct > heuristicIndicatorFloor {
		indicators = append(indicators, IndicatorPunctuation)
	}

	caps := Capitalization(text)
	scores[CategoryCapitalization] = caps
	if caps > heuristicIndicatorFloor {
		indicators = append(indicators, IndicatorCapitalization)
	}

	rep := Repetition(text)
	scores[CategoryRepetition] = rep
	if rep > heuristicIndicatorFloor {
		indicators = append(indicators, IndicatorRepetition)
	}

	contradiction, found := s.contradictions(lower)
	scores[CategoryContradictions] = contradiction
	indicators = append(indicators, found...)

	markers, found := s.markers(lower)
	scores[CategoryMarkers] = markers
	indicators = append(indicators, found...)

	irony, found := s.irony(lower)
	scores[CategoryIrony] = irony
	indicators = append(indicators, found...)

	exaggeration, found := s.exaggeration(lower)
	scores[CategoryExaggeration] = exaggeration
	indicators = append(indicators, found...)

	w := s.rules.Weights
	confidence := textutil.Clamp01(
		markers*w.Markers +
			contradiction*w.Contradictions +
			irony*w.Irony +
			exaggeration*w.Exaggeration +
			punct*w.Punctuation +
			caps*w.Capitalization +
			rep*w.Repetition,
	)

	return SarcasmResult{
		IsSarcastic:    confidence > s.rules.Threshold,
		Confidence:     confidence,
		Indicators:     indicators,
		ScoreBreakdown: scores,
	}
}

// Punctuation scores repeated exclamation and question marks, ellipses and
// mixed !? runs. Each family is capped before summing.
func Punctuation(text string) float64 {
	count := func(re *regexp.Regexp) float64 {
		return float64(len(re.FindAllStringIndex(text, -1)))
	}
	score := min(count(repeatedExclamation)*0.2, 0.6) +
		min(count(repeatedQuestion)*0.3, 0.7) +
		min(count(ellipsis)*0.2, 0.4) +
		min(count(mixedPunctuation)*0.3, 0.6)
	return min(score, 1.0)
}

func Capitalization(text string) float64 {
	if len(strings.Fields(text)) == 0 {
		return 0
	}
	score := 0.0
	ratio := textutil.CapsRatio(text)
	if ratio >= 0.2 && ratio <= 0.6 {
		score += ratio * 0.5
	}
	if alternatingCase.MatchString(text) {
		score += 0.7
	}
	return min(score, 1.0)
}

// Repetition scores immediately repeated words ("real real funny") and
// elongated letters ("sooo").
func Repetition(text string) float64 {
	lower := strings.ToLower(text)
	score := min(float64(repeatedWords(lower))*0.3, 0.6) +
		min(float64(elongatedRuns(text))*0.2, 0.4)
	return min(score, 1.0)
}

// repeatedWords counts non-overlapping pairs of identical words separated
// only by whitespace.
func repeatedWords(text string) int {
	spans := textutil.WordSpans(text)
	count := 0
	for i := 0; i+1 < len(spans); i++ {
		cur, next := spans[i], spans[i+1]
		gap := text[cur.End:next.Start]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue
		}
		if text[cur.Start:cur.End] == text[next.Start:next.End] {
			count++
			i++
		}
	}
	return count
}

// elongatedRuns counts runs of three or more identical word characters.
func elongatedRuns(text string) int {
	count := 0
	var prev rune
	run := 0
	for i, r := range text {
		if i > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run == 3 && textutil.IsWordRune(r) {
			count++
		}
	}
	return count
}

func (s *Scorer) contradictions(lower string) (float64, []string) {
	score := 0.0
	var found []string

	pos := containedIn(lower, s.rules.Positive)
	neg := containedIn(lower, s.rules.Negative)
	if len(pos) > 0 && len(neg) > 0 {
		score += 0.6
		found = append(found, fmt.Sprintf("positive_negative: %v vs %v", pos, neg))
	}

	love := containedIn(lower, s.rules.Love)
	hate := containedIn(lower, s.rules.Hate)
	if len(love) > 0 && len(hate) > 0 {
		score += 0.7
		found = append(found, fmt.Sprintf("love_hate: %v vs %v", love, hate))
	}
	return min(score, 1.0), found
}

func (s *Scorer) markers(lower string) (float64, []string) {
	score := 0.0
	var found []string
	for _, m := range s.rules.Markers {
		if strings.Contains(lower, m.Phrase) {
			score += m.Weight
			found = append(found, m.Phrase)
		}
	}
	return min(score, 1.0), found
}

func (s *Scorer) irony(lower string) (float64, []string) {
	score := 0.0
	var found []string
	for _, p := range s.rules.Irony {
		if p.Expr.MatchString(lower) {
			score += p.Weight
			found = append(found, p.Tag)
		}
	}
	return min(score, 1.0), found
}

func (s *Scorer) exaggeration(lower string) (float64, []string) {
	score := 0.0
	var found []string
	for _, p := range s.rules.Exaggeration {
		n := len(p.Expr.FindAllStringIndex(lower, -1))
		for i := 0; i < n; i++ {
			score += p.Weight
			found = append(found, p.Tag)
		}
	}
	return min(score, 1.0), found
}

func containedIn(text string, words []string) []string {
	var out []string
	for _, w := range words {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}

// ConfidenceLevel maps a confidence to its display level.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "Very High"
	case confidence >= 0.6:
		return "High"
	case confidence >= 0.4:
		return "Medium"
	case confidence >= 0.2:
		return "Low"
	default:
		return "Very Low"
	}
}
