package fusion

import "fmt"

const (
	RiskHigh       = "HIGH"
	RiskMediumHigh = "MEDIUM-HIGH"
	RiskMedium     = "MEDIUM"
	RiskLowMedium  = "LOW-MEDIUM"
	RiskLow        = "LOW"

	ActionBlock          = "BLOCK_CONTENT"
	ActionWarn           = "WARN_USER"
	ActionSuggest        = "SUGGEST_REVISION"
	ActionFlagForReview  = "FLAG_FOR_REVIEW"
	ActionAllow          = "ALLOW"
	AssessmentToxic      = "TOXIC"
	AssessmentNonToxic   = "NON-TOXIC"
	summaryListLimit     = 3
	flagSarcasmThreshold = 0.7
)

// Summary is the display digest of a FusedResult.
type Summary struct {
	OverallAssessment string   `json:"overall_assessment"`
	Confidence        string   `json:"confidence"`
	PrimaryConcerns   []string `json:"primary_concerns"`
	RiskLevel         string   `json:"risk_level"`
	SarcasmDetected   bool     `json:"sarcasm_detected"`
	TextWasNormalized bool     `json:"text_was_normalized"`
	KeyRiskFactors    []string `json:"key_risk_factors"`
	RecommendedAction string   `json:"recommended_action"`
}

func Summarize(r FusedResult) Summary {
	assessment := AssessmentNonToxic
	if r.IsToxic {
		assessment = AssessmentToxic
	}
	return Summary{
		OverallAssessment: assessment,
		Confidence:        fmt.Sprintf("%.3f", r.Confidence),
		PrimaryConcerns:   head(r.ToxicLabels),
		RiskLevel:         RiskLevel(r.Confidence),
		SarcasmDetected:   r.IsSarcastic,
		TextWasNormalized: r.NormalizationApplied,
		KeyRiskFactors:    head(r.RiskFactors),
		RecommendedAction: RecommendAction(r),
	}
}

func RiskLevel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return RiskHigh
	case confidence >= 0.6:
		return RiskMediumHigh
	case confidence >= 0.4:
		return RiskMedium
	case confidence >= 0.2:
		return RiskLowMedium
	default:
		return RiskLow
	}
}

func RecommendAction(r FusedResult) string {
	switch {
	case r.Confidence >= 0.8:
		return ActionBlock
	case r.Confidence >= 0.6:
		return ActionWarn
	case r.Confidence >= 0.4:
		return ActionSuggest
	case r.IsSarcastic && r.SarcasmConfidence > flagSarcasmThreshold:
		return ActionFlagForReview
	default:
		return ActionAllow
	}
}

func head(items []string) []string {
	if len(items) == 0 {
		return []string{"None"}
	}
	if len(items) > summaryListLimit {
		return append([]string{}, items[:summaryListLimit]...)
	}
	return append([]string{}, items...)
}
