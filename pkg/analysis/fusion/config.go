package fusion

// Weights are the per-channel factors of the fused score.
type Weights struct {
	Classifier    float64
	Contextual    float64
	Sarcasm       float64
	Normalization float64
}

type Config struct {
	Threshold     float64
	NotToxicLabel string
	Weights       Weights

	// Sarcasm only contributes once its confidence exceeds SarcasmTrigger,
	// as min(SarcasmCap, confidence*SarcasmFactor).
	SarcasmTrigger float64
	SarcasmCap     float64
	SarcasmFactor  float64

	// HiddenToxicityMargin is how far the normalized classifier confidence
	// must exceed the original one before NormalizationBoost applies.
	HiddenToxicityMargin float64
	NormalizationBoost   float64

	// ContextualLabelTrigger marks the text toxic whenever any token carries
	// a non-NEUTRAL contextual label.
	ContextualLabelTrigger bool
}

func DefaultConfig() Config {
	return Config{
		Threshold:     0.7,
		NotToxicLabel: "not toxic",
		Weights: Weights{
			Classifier:    0.40,
			Contextual:    0.35,
			Sarcasm:       0.15,
			Normalization: 0.10,
		},
		SarcasmTrigger:         0.6,
		SarcasmCap:             0.3,
		SarcasmFactor:          0.5,
		HiddenToxicityMargin:   0.1,
		NormalizationBoost:     0.2,
		ContextualLabelTrigger: true,
	}
}
