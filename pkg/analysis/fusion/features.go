package fusion

import (
	"unicode/utf8"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/contextual"
	"github.com/NeuralTrust/DetoxGate/pkg/analysis/sarcasm"
)

const (
	FeatureSarcasmConfidence  = "sarcasm_confidence"
	FeatureIsSarcastic        = "is_sarcastic"
	FeatureTextWasNormalized  = "text_was_normalized"
	FeatureTextLengthChange   = "text_length_change"
	FeatureNormalizationRatio = "normalization_ratio"

	prefixClassifier = "classifier_"
	prefixContextual = "ctx_"
	prefixSarcasm    = "sarc_"
)

// features flattens every channel into one numeric map. Flags are 0 or 1 and
// lengths are counted in runes.
func features(
	best ClassifierResult,
	ctxResult contextual.ContextualResult,
	sarc sarcasm.SarcasmResult,
	original, normalized string,
) map[string]float64 {
	out := make(map[string]float64, len(best.Scores)+len(ctxResult.ContextualFeatures)+len(sarc.ScoreBreakdown)+5)
	for k, v := range best.Scores {
		out[prefixClassifier+k] = v
	}
	for k, v := range ctxResult.ContextualFeatures {
		out[prefixContextual+k] = v
	}
	for k, v := range sarc.ScoreBreakdown {
		out[prefixSarcasm+k] = v
	}
	out[FeatureSarcasmConfidence] = sarc.Confidence
	out[FeatureIsSarcastic] = flag(sarc.IsSarcastic)
	out[FeatureTextWasNormalized] = flag(original != normalized)

	origLen := utf8.RuneCountInString(original)
	normLen := utf8.RuneCountInString(normalized)
	out[FeatureTextLengthChange] = float64(normLen - origLen)
	out[FeatureNormalizationRatio] = 1.0
	if origLen > 0 {
		out[FeatureNormalizationRatio] = float64(normLen) / float64(origLen)
	}
	return out
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
