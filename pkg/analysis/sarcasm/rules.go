package sarcasm

import "regexp"

type Marker struct {
	Phrase string
	Weight float64
}

type Pattern struct {
	Expr   *regexp.Regexp
	Weight float64
	Tag    string
}

// Weights are the per-category multipliers of the final confidence.
type Weights struct {
	Markers        float64
	Contradictions float64
	Irony          float64
	Exaggeration   float64
	Punctuation    float64
	Capitalization float64
	Repetition     float64
}

// Rules is the declarative rule set evaluated by the Scorer.
type Rules struct {
	Markers      []Marker
	Irony        []Pattern
	Exaggeration []Pattern
	Positive     []string
	Negative     []string
	Love         []string
	Hate         []string
	Weights      Weights
	Threshold    float64
}

func DefaultWeights() Weights {
	return Weights{
		Markers:        0.30,
		Contradictions: 0.25,
		Irony:          0.20,
		Exaggeration:   0.15,
		Punctuation:    0.05,
		Capitalization: 0.03,
		Repetition:     0.02,
	}
}

func DefaultRules() *Rules {
	return &Rules{
		Markers:      defaultMarkers(),
		Irony:        defaultIrony(),
		Exaggeration: defaultExaggeration(),
		Positive: []string{
			"good", "great", "excellent", "wonderful", "amazing", "fantastic",
			"perfect", "beautiful", "lovely", "brilliant", "superb", "outstanding",
		},
		Negative: []string{
			"bad", "terrible", "awful", "horrible", "disgusting", "pathetic",
			"useless", "worthless", "stupid", "idiotic", "moronic", "ridiculous",
		},
		Love:      []string{"love", "adore", "enjoy", "like", "appreciate"},
		Hate:      []string{"hate", "despise", "loathe", "detest", "can't stand"},
		Weights:   DefaultWeights(),
		Threshold: 0.4,
	}
}

func defaultMarkers() []Marker {
	return []Marker{
		{"oh really", 0.8},
		{"how wonderful", 0.7},
		{"great job", 0.6},
		{"well done", 0.6},
		{"brilliant", 0.5},
		{"fantastic", 0.5},
		{"amazing", 0.4},
		{"perfect", 0.4},
		{"lovely", 0.4},
		{"charming", 0.4},
		{"delightful", 0.4},
		{"marvelous", 0.4},
		{"superb", 0.4},
		{"outstanding", 0.4},
		{"excellent", 0.3},
		{"sure thing", 0.6},
		{"yeah right", 0.9},
		{"of course", 0.5},
		{"obviously", 0.5},
		{"clearly", 0.4},
		{"naturally", 0.4},
		{"certainly", 0.4},
		{"absolutely", 0.3},
		{"whatever", 0.7},
		{"fine", 0.4},
		{"okay", 0.3},
		{"sure", 0.3},
		{"right", 0.3},
		{"so funny", 0.6},
		{"hilarious", 0.5},
		{"real funny", 0.8},
		{"very funny", 0.6},
		{"how original", 0.8},
		{"real original", 0.8},
		{"so original", 0.7},
		{"very original", 0.6},
		{"how clever", 0.7},
		{"real clever", 0.8},
		{"so clever", 0.7},
		{"very clever", 0.6},
	}
}

func defaultIrony() []Pattern {
	return []Pattern{
		{
			Expr:   regexp.MustCompile(`\b(love|enjoy|adore)\b.*\b(hate|despise|awful|terrible)\b`),
			Weight: 0.7,
			Tag:    "contradiction_love_hate",
		},
		{
			Expr:   regexp.MustCompile(`\b(perfect|great|wonderful)\b.*\b(disaster|mess|failure|terrible)\b`),
			Weight: 0.8,
			Tag:    "positive_negative_contradiction",
		},
		{
			Expr:   regexp.MustCompile(`\b(thanks|thank you)\b.*\b(nothing|ruin|destroy|mess up)\b`),
			Weight: 0.7,
			Tag:    "sarcastic_thanks",
		},
		{
			Expr:   regexp.MustCompile(`\b(exactly|precisely)\b.*\b(what|how)\s+(i|we)\s+(need|want)\b.*\b(not|never)\b`),
			Weight: 0.8,
			Tag:    "ironic_exactness",
		},
		{
			Expr:   regexp.MustCompile(`\b(just|exactly)\s+what\s+(i|we)\s+(needed|wanted)\b`),
			Weight: 0.6,
			Tag:    "ironic_need",
		},
		{
			Expr:   regexp.MustCompile(`\bhow\s+(wonderful|nice|lovely|great|lucky)\s+for\s+(you|him|her|them)\b`),
			Weight: 0.6,
			Tag:    "sarcastic_congratulation",
		},
	}
}

func defaultExaggeration() []Pattern {
	return []Pattern{
		{
			Expr:   regexp.MustCompile(`\b(so|very|extremely|incredibly|absolutely|totally|completely)\s+(perfect|great|wonderful|amazing)\b`),
			Weight: 0.6,
			Tag:    "exaggerated_positive",
		},
		{
			Expr:   regexp.MustCompile(`\b(real|really|very)\s+(funny|clever|smart|brilliant)\b`),
			Weight: 0.7,
			Tag:    "exaggerated_compliment",
		},
		{
			Expr:   regexp.MustCompile(`\b(oh\s+)?(wow|gee|golly)\b`),
			Weight: 0.5,
			Tag:    "sarcastic_exclamation",
		},
	}
}
