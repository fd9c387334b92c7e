package contextual

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
)

type Label string

const (
	Neutral        Label = "NEUTRAL"
	Toxic          Label = "TOXIC"
	Sarcastic      Label = "SARCASTIC"
	Aggressive     Label = "AGGRESSIVE"
	Offensive      Label = "OFFENSIVE"
	Threatening    Label = "THREATENING"
	Discriminatory Label = "DISCRIMINATORY"
)

// Labels lists every label in declaration order.
var Labels = []Label{Neutral, Toxic, Sarcastic, Aggressive, Offensive, Threatening, Discriminatory}

const (
	RiskThreatening       = "Contains threatening language"
	RiskToxicConcentrated = "High concentration of toxic terms"
	RiskEscalation        = "Escalating language patterns"
	RiskCapitalization    = "Excessive capitalization"
	RiskPunctuation       = "Aggressive punctuation"
	RiskPersonalTargeting = "Personal targeting detected"
)

const (
	contextRadius      = 2
	defaultUsageRadius = 5
	edgePositionWeight = 1.2
	minAttentionPeak   = 0.1
)

var (
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}_]+|\S`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

type SentencePosition string

const (
	Beginning SentencePosition = "beginning"
	Middle    SentencePosition = "middle"
	End       SentencePosition = "end"
)

// TokenContext is a token together with its surroundings.
type TokenContext struct {
	Token            string
	Position         int
	Prev             string
	Next             string
	Window           []string
	UsageWindow      []string
	SentencePosition SentencePosition
	IsPunctuation    bool
	IsCapitalized    bool
}

type TokenFeatures struct {
	BaseToxicity     float64 `json:"base_toxicity"`
	ContextModifier  float64 `json:"context_modifier"`
	PositionWeight   float64 `json:"position_weight"`
	EscalationFactor float64 `json:"escalation_factor"`
	MitigationFactor float64 `json:"mitigation_factor"`
}

type TokenAnalysis struct {
	Token      string        `json:"token"`
	Position   int           `json:"position"`
	Label      Label         `json:"label"`
	Confidence float64       `json:"confidence"`
	Features   TokenFeatures `json:"features"`
}

type ContextualResult struct {
	Text               string             `json:"text"`
	OverallToxicity    float64            `json:"overall_toxicity"`
	SequenceLabels     []TokenAnalysis    `json:"sequence_labels"`
	ContextualFeatures map[string]float64 `json:"contextual_features"`
	AttentionWeights   []float64          `json:"attention_weights"`
	RiskFactors        []string           `json:"risk_factors"`
}

// HasNonNeutral reports whether any token carries a label other than NEUTRAL.
func (r ContextualResult) HasNonNeutral() bool {
	for _, t := range r.SequenceLabels {
		if t.Label != Neutral {
			return true
		}
	}
	return false
}

type Option func(*Scorer)

// WithUsageRadius sets how many tokens on each side are searched when
// resolving a term's usage context.
func WithUsageRadius(radius int) Option {
	return func(s *Scorer) {
		if radius >= contextRadius {
			s.usageRadius = radius
		}
	}
}

// Scorer performs token-level contextual toxicity scoring.
type Scorer struct {
	lexicon     *Lexicon
	usageRadius int
}

func New(lexicon *Lexicon, opts ...Option) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	s := &Scorer{lexicon: lexicon, usageRadius: defaultUsageRadius}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) Analyze(text string) ContextualResult {
	if strings.TrimSpace(text) == "" {
		return ContextualResult{
			SequenceLabels:     []TokenAnalysis{},
			ContextualFeatures: map[string]float64{},
			AttentionWeights:   []float64{},
			RiskFactors:        []string{},
		}
	}

	contexts := s.Tokenize(text)
	tokens := make([]TokenAnalysis, len(contexts))
	for i, tc := range contexts {
		tokens[i] = s.scoreToken(tc)
	}

	weights := attentionWeights(tokens)
	features := extractFeatures(text, tokens)

	return ContextualResult{
		Text:               text,
		OverallToxicity:    weightedMean(tokens, weights),
		SequenceLabels:     tokens,
		ContextualFeatures: features,
		AttentionWeights:   weights,
		RiskFactors:        riskFactors(features, tokens),
	}
}

// Tokenize splits text into word and standalone punctuation tokens. Token
// text is lowercased; capitalization is read from the original.
func (s *Scorer) Tokenize(text string) []TokenContext {
	raw := tokenPattern.FindAllString(text, -1)
	words := make([]string, len(raw))
	for i, w := range raw {
		words[i] = strings.ToLower(w)
	}
	wordCount := float64(len(strings.Fields(text)))

	out := make([]TokenContext, len(words))
	for i, w := range words {
		tc := TokenContext{
			Token:            w,
			Position:         i,
			Window:           window(words, i, contextRadius),
			UsageWindow:      window(words, i, s.usageRadius),
			SentencePosition: sentencePosition(i, wordCount),
			IsPunctuation:    !isAlnum(w),
		}
		if i > 0 {
			tc.Prev = words[i-1]
		}
		if i < len(words)-1 {
			tc.Next = words[i+1]
		}
		if r, _ := utf8.DecodeRuneInString(raw[i]); unicode.IsUpper(r) {
			tc.IsCapitalized = true
		}
		out[i] = tc
	}
	return out
}

func window(words []string, i, radius int) []string {
	lo := max(0, i-radius)
	hi := min(len(words), i+radius+1)
	return words[lo:hi]
}

func sentencePosition(i int, wordCount float64) SentencePosition {
	switch pos := float64(i); {
	case pos < wordCount*0.3:
		return Beginning
	case pos > wordCount*0.7:
		return End
	default:
		return Middle
	}
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (s *Scorer) scoreToken(tc TokenContext) TokenAnalysis {
	f := TokenFeatures{PositionWeight: 1.0}

	if term, ok := s.lexicon.Terms[tc.Token]; ok {
		f.BaseToxicity = s.resolveUsage(term, tc)
	}

	f.ContextModifier = s.contextModifier(tc.Window)

	approxLength := float64(len(tc.Window) * 2)
	if pos := float64(tc.Position); pos < approxLength*0.2 || pos > approxLength*0.8 {
		f.PositionWeight = edgePositionWeight
	}

	joined := strings.Join(tc.Window, " ")
	for _, p := range s.lexicon.Escalation {
		if p.Expr.MatchString(joined) {
			f.EscalationFactor += p.Weight
		}
	}
	for _, p := range s.lexicon.Mitigation {
		if p.Expr.MatchString(joined) {
			f.MitigationFactor += p.Weight
		}
	}

	confidence := textutil.Clamp01((f.BaseToxicity+f.ContextModifier)*f.PositionWeight +
		f.EscalationFactor + f.MitigationFactor)

	return TokenAnalysis{
		Token:      tc.Token,
		Position:   tc.Position,
		Label:      labelFor(confidence, f.EscalationFactor),
		Confidence: confidence,
		Features:   f,
	}
}

// resolveUsage returns the term's base toxicity scaled by the first usage
// context found around the token, or the flat base when none matches.
func (s *Scorer) resolveUsage(term Term, tc TokenContext) float64 {
	joined := strings.Join(tc.UsageWindow, " ")
	for _, uc := range s.lexicon.UsageContexts {
		multiplier, ok := term.Contexts[uc.Name]
		if !ok {
			continue
		}
		for _, trigger := range uc.Triggers {
			if (uc.Substring && strings.Contains(joined, trigger)) ||
				(!uc.Substring && contains(tc.UsageWindow, trigger)) {
				return term.Base * multiplier
			}
		}
	}

	if multiplier, ok := term.Contexts[s.lexicon.FallbackContext]; ok {
		for _, m := range term.Modifiers {
			if contains(tc.UsageWindow, m) {
				return term.Base * multiplier
			}
		}
	}
	return term.Base
}

func (s *Scorer) contextModifier(win []string) float64 {
	sum := 0.0
	for _, m := range s.lexicon.Modifiers {
		parts := strings.Fields(m.Phrase)
		sum += float64(countPhrase(win, parts)) * m.Weight
	}
	return min(sum, s.lexicon.ModifierCap)
}

func countPhrase(win, parts []string) int {
	if len(parts) == 0 {
		return 0
	}
	n := 0
	for i := 0; i+len(parts) <= len(win); i++ {
		match := true
		for j, p := range parts {
			if win[i+j] != p {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func labelFor(confidence, escalation float64) Label {
	switch {
	case confidence >= 0.8:
		if escalation > 0.5 {
			return Threatening
		}
		return Toxic
	case confidence >= 0.6:
		if escalation > 0.3 {
			return Aggressive
		}
		return Offensive
	case confidence >= 0.4:
		return Offensive
	default:
		// 0.2 and above is reserved for sarcasm-aware relabeling.
		return Neutral
	}
}

func attentionWeights(tokens []TokenAnalysis) []float64 {
	peak := minAttentionPeak
	for _, t := range tokens {
		peak = max(peak, t.Confidence)
	}

	weights := make([]float64, len(tokens))
	for i, t := range tokens {
		w := t.Confidence / peak
		switch t.Label {
		case Threatening, Toxic:
			w *= 1.5
		case Aggressive, Offensive:
			w *= 1.2
		}
		w *= t.Features.PositionWeight
		weights[i] = min(w, 1.0)
	}
	return weights
}

func weightedMean(tokens []TokenAnalysis, weights []float64) float64 {
	var num, den float64
	for i, t := range tokens {
		num += t.Confidence * weights[i]
		den += weights[i]
	}
	if den <= 0 {
		return 0
	}
	return textutil.Clamp01(num / den)
}
