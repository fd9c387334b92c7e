package contextual

import "regexp"

// Term is a context-sensitive toxic lexicon entry. Contexts maps a usage
// context name to the multiplier applied to Base when that usage is found.
type Term struct {
	Base      float64
	Contexts  map[string]float64
	Modifiers []string
}

// UsageContext describes how a usage context is recognised in a token's
// neighbourhood. Substring triggers match anywhere in the joined window;
// the others must equal a token.
type UsageContext struct {
	Name      string
	Triggers  []string
	Substring bool
}

type WeightedPattern struct {
	Expr   *regexp.Regexp
	Weight float64
	Tag    string
}

// Modifier is an amplifier (positive weight) or mitigator (negative weight).
// Multi-word phrases match consecutive tokens.
type Modifier struct {
	Phrase string
	Weight float64
}

const (
	ContextGaming         = "gaming"
	ContextPersonalAttack = "personal_attack"
	ContextGroupTargeting = "group_targeting"
)

// Lexicon is the declarative rule set evaluated by the Scorer.
type Lexicon struct {
	Terms         map[string]Term
	UsageContexts []UsageContext
	// FallbackContext is applied when a term modifier is present but no
	// usage context matched.
	FallbackContext string
	Modifiers       []Modifier
	ModifierCap     float64
	Escalation      []WeightedPattern
	Mitigation      []WeightedPattern
}

func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Terms:           defaultTerms(),
		UsageContexts:   defaultUsageContexts(),
		FallbackContext: ContextPersonalAttack,
		Modifiers:       defaultModifiers(),
		ModifierCap:     0.5,
		Escalation:      defaultEscalation(),
		Mitigation:      defaultMitigation(),
	}
}

func defaultTerms() map[string]Term {
	return map[string]Term{
		"kill": {
			Base:      0.8,
			Contexts:  map[string]float64{ContextGaming: 0.3, "metaphor": 0.2, "direct_threat": 0.9},
			Modifiers: []string{"you", "yourself", "him", "her", "them"},
		},
		"die": {
			Base:      0.7,
			Contexts:  map[string]float64{ContextGaming: 0.2, "wish_harm": 0.8, "metaphor": 0.1},
			Modifiers: []string{"should", "must", "will", "hope"},
		},
		"murder": {
			Base:     0.9,
			Contexts: map[string]float64{"news_discussion": 0.3, "threat": 0.9, "fictional": 0.2},
		},
		"hate": {
			Base:      0.6,
			Contexts:  map[string]float64{ContextGroupTargeting: 0.8, "personal_opinion": 0.4, "strong_dislike": 0.5},
			Modifiers: []string{"all", "every", "those", "these"},
		},
		"stupid": {
			Base:      0.5,
			Contexts:  map[string]float64{ContextPersonalAttack: 0.7, "general_description": 0.3, "self_deprecating": 0.1},
			Modifiers: []string{"you", "your", "so", "really"},
		},
		"idiot": {
			Base:     0.6,
			Contexts: map[string]float64{ContextPersonalAttack: 0.8, "general_use": 0.4, "playful": 0.2},
		},
		"gay": {
			Base:      0.1,
			Contexts:  map[string]float64{"slur_usage": 0.8, "identity_reference": 0.0, "derogatory_modifier": 0.7},
			Modifiers: []string{"so", "that's", "sounds"},
		},
	}
}

func defaultUsageContexts() []UsageContext {
	return []UsageContext{
		{Name: ContextGaming, Triggers: []string{"game", "play", "level", "enemy", "boss", "character"}, Substring: true},
		{Name: ContextPersonalAttack, Triggers: []string{"you", "your", "yourself"}},
		{Name: ContextGroupTargeting, Triggers: []string{"all", "every", "those", "these", "they"}},
	}
}

func defaultModifiers() []Modifier {
	return []Modifier{
		{"fucking", 0.3},
		{"damn", 0.2},
		{"bloody", 0.2},
		{"really", 0.1},
		{"so", 0.1},
		{"very", 0.1},
		{"extremely", 0.2},
		{"totally", 0.1},
		{"you", 0.3},
		{"your", 0.2},
		{"yourself", 0.4},
		{"always", 0.2},
		{"never", 0.2},
		{"all", 0.2},
		{"every", 0.2},
		{"everyone", 0.2},
		{"nobody", 0.2},
		{"will", 0.2},
		{"gonna", 0.2},
		{"should", 0.3},
		{"must", 0.3},
		{"have to", 0.2},
		{"maybe", -0.2},
		{"perhaps", -0.2},
		{"probably", -0.1},
		{"seems", -0.1},
		{"appears", -0.1},
		{"might", -0.2},
	}
}

// Patterns run over the space-joined lowercase token window, so contractions
// appear split around the apostrophe.
func defaultEscalation() []WeightedPattern {
	return []WeightedPattern{
		{
			Expr:   regexp.MustCompile(`\b(if\s+you|when\s+you).*\b(don\s*'\s*t|won\s*'\s*t|refuse)`),
			Weight: 0.4,
			Tag:    "conditional_threat",
		},
		{
			Expr:   regexp.MustCompile(`\b(i\s+will|i\s*'\s*ll|gonna).*\b(make\s+you|force\s+you|ensure)`),
			Weight: 0.6,
			Tag:    "future_threat",
		},
		{
			Expr:   regexp.MustCompile(`\b(you\s+better|you\s+should).*\b(or\s+else|or\s+i)`),
			Weight: 0.7,
			Tag:    "ultimatum",
		},
		{
			Expr:   regexp.MustCompile(`\b(shut\s+up|shut\s+the\s+fuck\s+up)`),
			Weight: 0.5,
			Tag:    "silencing_command",
		},
		{
			Expr:   regexp.MustCompile(`\b(get\s+out|go\s+away|leave).*\b(now|immediately)`),
			Weight: 0.4,
			Tag:    "banishment_command",
		},
	}
}

func defaultMitigation() []WeightedPattern {
	return []WeightedPattern{
		{
			Expr:   regexp.MustCompile(`\b(just\s+kidding|jk|joke|joking)`),
			Weight: -0.3,
			Tag:    "humor_indicator",
		},
		{
			Expr:   regexp.MustCompile(`\b(no\s+offense|don\s*'\s*t\s+take\s+it\s+personal)`),
			Weight: -0.2,
			Tag:    "disclaimer",
		},
		{
			Expr:   regexp.MustCompile(`\b(sorry|apologize|my\s+bad)`),
			Weight: -0.4,
			Tag:    "apology",
		},
		{
			Expr:   regexp.MustCompile(`\b(i\s+think|in\s+my\s+opinion|seems\s+to\s+me)`),
			Weight: -0.1,
			Tag:    "opinion_qualifier",
		},
	}
}
