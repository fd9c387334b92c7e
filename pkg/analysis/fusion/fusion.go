package fusion

import (
	"context"
	"fmt"
	"strings"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/normalizer"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/sarcasm"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/classifier"
)

const (
	LabelSarcastic = "SARCASTIC"

	ScoreContextual = "contextual_toxicity"
	ScoreSarcasm    = "sarcasm_confidence"
	ScoreFinal      = "final_combined"

	RiskHiddenToxicity = "Hidden toxic content revealed through normalization"

	NoteEmptyInput      = "Empty or invalid input"
	NoteNormalizing     = "Starting text normalization"
	NoteSarcasm         = "Analyzing sarcasm and irony"
	NoteContextual      = "Performing contextual analysis"
	NoteClassifier      = "Running external classifier analysis"
	NoteHiddenToxicity  = "Normalization revealed additional toxic content"
	NoteCombining       = "Combining multi-task analysis results"
	NoteNormalizedBoost = "Text normalization revealed hidden toxic content"

	contextualNoteFloor = 0.5
	notePreviewRunes    = 50
	componentVersion    = "1.0.0"
)

// ClassifierResult is the external classifier's verdict on one text.
type ClassifierResult struct {
	Available   bool               `json:"available"`
	IsToxic     bool               `json:"is_toxic"`
	Confidence  float64            `json:"confidence"`
	ToxicLabels []string           `json:"toxic_labels"`
	Scores      map[string]float64 `json:"scores"`
	Error       string             `json:"error,omitempty"`
}

// FusedResult is produced for every call. Enhanced is false only for the
// empty-input shape, in which case the analysis sub-objects are nil.
type FusedResult struct {
	Enhanced    bool               `json:"enhanced"`
	IsToxic     bool               `json:"is_toxic"`
	Confidence  float64            `json:"confidence"`
	ToxicLabels []string           `json:"toxic_labels"`
	Scores      map[string]float64 `json:"scores"`
	ToxicWords  []string           `json:"toxic_words"`

	NormalizedText       string                       `json:"normalized_text"`
	NormalizationApplied bool                         `json:"normalization_applied"`
	Sarcasm              *sarcasm.SarcasmResult       `json:"sarcasm_analysis,omitempty"`
	Contextual           *contextual.ContextualResult `json:"contextual_analysis,omitempty"`
	RiskFactors          []string                     `json:"risk_factors"`

	IsSarcastic       bool               `json:"is_sarcastic"`
	SarcasmConfidence float64            `json:"sarcasm_confidence"`
	ContextToxicity   float64            `json:"context_toxicity"`
	Features          map[string]float64 `json:"features"`

	ClassifierAvailable bool `json:"classifier_available"`

	ProcessingNotes []string          `json:"processing_notes"`
	ModelVersions   map[string]string `json:"model_versions"`
}

type Engine struct {
	cfg        Config
	normalizer *normalizer.Normalizer
	sarcasm    *sarcasm.Scorer
	contextual *contextual.Scorer
	classifier classifier.Client
}

// New wires the scorers into an engine. Nil scorers fall back to their
// default lexicons; a nil classifier is reported as unavailable.
func New(
	cfg Config,
	norm *normalizer.Normalizer,
	sarc *sarcasm.Scorer,
	ctxScorer *contextual.Scorer,
	client classifier.Client,
) *Engine {
	if norm == nil {
		norm = normalizer.New(nil)
	}
	if sarc == nil {
		sarc = sarcasm.New(nil)
	}
	if ctxScorer == nil {
		ctxScorer = contextual.New(nil)
	}
	return &Engine{
		cfg:        cfg,
		normalizer: norm,
		sarcasm:    sarc,
		contextual: ctxScorer,
		classifier: client,
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) HasClassifier() bool {
	return e.classifier != nil
}

func ModelVersions() map[string]string {
	return map[string]string{
		"text_normalizer":     componentVersion,
		"sarcasm_detector":    componentVersion,
		"contextual_analyzer": componentVersion,
		"fusion_engine":       componentVersion,
	}
}

func (e *Engine) Fuse(ctx context.Context, text string, customWords []string) FusedResult {
	if strings.TrimSpace(text) == "" {
		return emptyResult()
	}

	notes := []string{NoteNormalizing}
	normalized := e.normalizer.Normalize(text)
	applied := normalized != text
	if applied {
		notes = append(notes, fmt.Sprintf("Text normalized: '%s...' -> '%s...'",
			preview(text), preview(normalized)))
	}

	notes = append(notes, NoteSarcasm)
	sarc := e.sarcasm.Analyze(text)

	notes = append(notes, NoteContextual)
	ctxResult := e.contextual.Analyze(normalized)

	notes = append(notes, NoteClassifier)
	raw := e.Classify(ctx, text)
	norm := e.Classify(ctx, normalized)
	if !raw.Available && raw.Error != "" {
		notes = append(notes, "Classifier unavailable: "+raw.Error)
	}

	hidden := norm.Confidence > raw.Confidence+e.cfg.HiddenToxicityMargin
	if hidden {
		notes = append(notes, NoteHiddenToxicity)
	}
	best := raw
	if hidden {
		best = norm
	}

	toxicWords := matchWords(normalized, customWords)

	notes = append(notes, NoteCombining)
	confidence, reasoning := e.combine(best.Confidence, ctxResult.OverallToxicity, sarc, hidden)
	notes = append(notes, reasoning...)

	isToxic := confidence > e.cfg.Threshold || len(toxicWords) > 0
	if e.cfg.ContextualLabelTrigger && ctxResult.HasNonNeutral() {
		isToxic = true
	}

	labels := newOrderedSet()
	labels.add(best.ToxicLabels...)
	for _, tok := range ctxResult.SequenceLabels {
		if tok.Label != contextual.Neutral {
			labels.add(string(tok.Label))
		}
	}
	if sarc.IsSarcastic && sarc.Confidence > e.cfg.SarcasmTrigger {
		labels.add(LabelSarcastic)
	}

	scores := make(map[string]float64, len(best.Scores)+3)
	for label, score := range best.Scores {
		scores[label] = score
	}
	scores[ScoreContextual] = ctxResult.OverallToxicity
	scores[ScoreSarcasm] = sarc.Confidence
	scores[ScoreFinal] = confidence

	risks := append([]string{}, ctxResult.RiskFactors...)
	if sarc.IsSarcastic {
		risks = append(risks, fmt.Sprintf("Sarcasm detected (confidence: %.3f)", sarc.Confidence))
	}
	if hidden {
		risks = append(risks, RiskHiddenToxicity)
	}

	return FusedResult{
		Enhanced:             true,
		IsToxic:              isToxic,
		Confidence:           confidence,
		ToxicLabels:          labels.items,
		Scores:               scores,
		ToxicWords:           toxicWords,
		NormalizedText:       normalized,
		NormalizationApplied: applied,
		Sarcasm:              &sarc,
		Contextual:           &ctxResult,
		RiskFactors:          risks,
		IsSarcastic:          sarc.IsSarcastic,
		SarcasmConfidence:    sarc.Confidence,
		ContextToxicity:      ctxResult.OverallToxicity,
		Features:             features(best, ctxResult, sarc, text, normalized),
		ClassifierAvailable:  raw.Available || norm.Available,
		ProcessingNotes:      notes,
		ModelVersions:        ModelVersions(),
	}
}

// Classify runs the external classifier on text. Failures are folded into
// an unavailable result.
func (e *Engine) Classify(ctx context.Context, text string) ClassifierResult {
	result := ClassifierResult{
		ToxicLabels: []string{},
		Scores:      map[string]float64{},
	}
	if e.classifier == nil {
		return result
	}

	scores, err := e.classifier.Classify(ctx, text)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Available = true
	for _, s := range scores {
		score := textutil.Clamp01(s.Score)
		result.Scores[s.Label] = score
		if score >= e.cfg.Threshold && !strings.EqualFold(s.Label, e.cfg.NotToxicLabel) {
			result.ToxicLabels = append(result.ToxicLabels, s.Label)
			result.Confidence = max(result.Confidence, score)
		}
	}
	result.IsToxic = len(result.ToxicLabels) > 0
	return result
}

func (e *Engine) combine(
	classifierScore, contextualScore float64,
	sarc sarcasm.SarcasmResult,
	hidden bool,
) (float64, []string) {
	var reasoning []string

	if classifierScore > e.cfg.Threshold {
		reasoning = append(reasoning,
			fmt.Sprintf("External classifier detected toxicity (confidence: %.3f)", classifierScore))
	}
	if contextualScore > contextualNoteFloor {
		reasoning = append(reasoning,
			fmt.Sprintf("Contextual analysis detected toxicity (confidence: %.3f)", contextualScore))
	}

	sarcasmAdjustment := 0.0
	if sarc.IsSarcastic && sarc.Confidence > e.cfg.SarcasmTrigger {
		sarcasmAdjustment = min(e.cfg.SarcasmCap, sarc.Confidence*e.cfg.SarcasmFactor)
		reasoning = append(reasoning,
			fmt.Sprintf("Sarcasm detected, increasing toxicity assessment (+%.3f)", sarcasmAdjustment))
	}

	boost := 0.0
	if hidden {
		boost = e.cfg.NormalizationBoost
		reasoning = append(reasoning, NoteNormalizedBoost)
	}

	w := e.cfg.Weights
	final := classifierScore*w.Classifier +
		contextualScore*w.Contextual +
		sarcasmAdjustment*w.Sarcasm +
		boost*w.Normalization
	return textutil.Clamp01(final), reasoning
}

// matchWords returns the custom words contained anywhere in text, compared
// case-insensitively, in the order given.
func matchWords(text string, words []string) []string {
	lower := strings.ToLower(text)
	found := newOrderedSet()
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			found.add(w)
		}
	}
	return found.items
}

func emptyResult() FusedResult {
	return FusedResult{
		ToxicLabels:     []string{},
		Scores:          map[string]float64{},
		ToxicWords:      []string{},
		RiskFactors:     []string{},
		Features:        map[string]float64{},
		ProcessingNotes: []string{NoteEmptyInput},
		ModelVersions:   ModelVersions(),
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > notePreviewRunes {
		r = r[:notePreviewRunes]
	}
	return string(r)
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: map[string]struct{}{}}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}
