package contextual

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	FeatureToxicTokenRatio    = "toxic_token_ratio"
	FeatureMaxConfidence      = "max_token_confidence"
	FeatureAvgConfidence      = "avg_token_confidence"
	FeatureEscalationScore    = "escalation_score"
	FeatureMitigationScore    = "mitigation_score"
	FeatureTextLength         = "text_length"
	FeatureSentenceCount      = "sentence_count"
	FeatureExclamationDensity = "exclamation_density"
	FeatureQuestionDensity    = "question_density"
	FeatureCapsRatio          = "caps_ratio"
)

// LabelFeature is the feature key holding the occurrence ratio of l.
func LabelFeature(l Label) string {
	return strings.ToLower(string(l))
}

func extractFeatures(text string, tokens []TokenAnalysis) map[string]float64 {
	features := make(map[string]float64, 17)
	n := float64(len(tokens))

	var nonNeutral, sum, peak float64
	counts := make(map[Label]int, len(Labels))
	escalation, mitigation := 0.0, 0.0
	for i, t := range tokens {
		if t.Label != Neutral {
			nonNeutral++
		}
		sum += t.Confidence
		peak = max(peak, t.Confidence)
		counts[t.Label]++
		if i == 0 || t.Features.EscalationFactor > escalation {
			escalation = t.Features.EscalationFactor
		}
		if i == 0 || t.Features.MitigationFactor < mitigation {
			mitigation = t.Features.MitigationFactor
		}
	}

	features[FeatureMaxConfidence] = peak
	if n > 0 {
		features[FeatureToxicTokenRatio] = nonNeutral / n
		features[FeatureAvgConfidence] = sum / n
	} else {
		features[FeatureToxicTokenRatio] = 0
		features[FeatureAvgConfidence] = 0
	}
	for _, l := range Labels {
		ratio := 0.0
		if n > 0 {
			ratio = float64(counts[l]) / n
		}
		features[LabelFeature(l)] = ratio
	}
	features[FeatureEscalationScore] = escalation
	features[FeatureMitigationScore] = mitigation

	length := utf8.RuneCountInString(text)
	features[FeatureTextLength] = float64(length)
	features[FeatureSentenceCount] = float64(len(sentencePattern.Split(text, -1)))

	var exclamations, questions, upper int
	for _, r := range text {
		switch {
		case r == '!':
			exclamations++
		case r == '?':
			questions++
		case unicode.IsUpper(r):
			upper++
		}
	}
	if length > 0 {
		features[FeatureExclamationDensity] = float64(exclamations) / float64(length)
		features[FeatureQuestionDensity] = float64(questions) / float64(length)
		features[FeatureCapsRatio] = float64(upper) / float64(length)
	}
	return features
}

func riskFactors(features map[string]float64, tokens []TokenAnalysis) []string {
	risks := make([]string, 0)
	if features[LabelFeature(Threatening)] > 0 {
		risks = append(risks, RiskThreatening)
	}
	if features[FeatureToxicTokenRatio] > 0.3 {
		risks = append(risks, RiskToxicConcentrated)
	}
	if features[FeatureEscalationScore] > 0.5 {
		risks = append(risks, RiskEscalation)
	}
	if features[FeatureCapsRatio] > 0.3 {
		risks = append(risks, RiskCapitalization)
	}
	if features[FeatureExclamationDensity] > 0.05 {
		risks = append(risks, RiskPunctuation)
	}
	for _, t := range tokens {
		if strings.Contains(t.Token, "you") && t.Confidence > 0.5 {
			risks = append(risks, RiskPersonalTargeting)
			break
		}
	}
	return risks
}
