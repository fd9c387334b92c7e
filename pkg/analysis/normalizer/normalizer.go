package normalizer

import (
	"strings"
	"unicode/utf8"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
	"golang.org/x/text/unicode/norm"
)

const (
	StepOriginal        = "original"
	StepUnicode         = "unicode_normalized"
	StepEmoji           = "emoji_normalized"
	StepSlang           = "slang_expanded"
	StepAbbreviations   = "abbreviations_expanded"
	StepSpelling        = "spelling_corrected"
	StepCase            = "case_normalized"
	StepRepeatedChars   = "repeated_chars_removed"
	StepFinalNormalized = "final_normalized"
)

type StepOutput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type NormalizationResult struct {
	OriginalText     string       `json:"original_text"`
	NormalizedText   string       `json:"normalized_text"`
	StepOutputs      []StepOutput `json:"steps"`
	Changed          bool         `json:"changed"`
	OriginalLength   int          `json:"original_length"`
	NormalizedLength int          `json:"normalized_length"`
}

// Normalizer rewrites informal text into a canonical form. It is safe for
// concurrent use; the lexicon is never mutated after construction.
type Normalizer struct {
	emoji         []Substitution
	slang         map[string]string
	abbreviations map[string]string
	misspellings  map[string]string
}

func New(lexicon *Lexicon) *Normalizer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Normalizer{
		emoji:         orderEmoji(lexicon.Emoji),
		slang:         lexicon.Slang,
		abbreviations: lexicon.Abbreviations,
		misspellings:  lexicon.Misspellings,
	}
}

func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	return n.Describe(text).NormalizedText
}

// Describe runs every step and records the text after each one.
func (n *Normalizer) Describe(text string) NormalizationResult {
	if text == "" {
		return NormalizationResult{StepOutputs: []StepOutput{}}
	}
	steps := []struct {
		name string
		fn   func(string) string
	}{
		{StepUnicode, UnicodeCanonical},
		{StepEmoji, n.NormalizeEmoji},
		{StepSlang, n.ExpandSlang},
		{StepAbbreviations, n.ExpandAbbreviations},
		{StepSpelling, n.CorrectSpelling},
		{StepCase, NormalizeCase},
		{StepRepeatedChars, CollapseRepeated},
		{StepFinalNormalized, NormalizeWhitespace},
	}

	outputs := make([]StepOutput, 0, len(steps)+1)
	outputs = append(outputs, StepOutput{Name: StepOriginal, Text: text})
	current := text
	for _, step := range steps {
		current = step.fn(current)
		outputs = append(outputs, StepOutput{Name: step.name, Text: current})
	}

	return NormalizationResult{
		OriginalText:     text,
		NormalizedText:   current,
		StepOutputs:      outputs,
		Changed:          current != text,
		OriginalLength:   utf8.RuneCountInString(text),
		NormalizedLength: utf8.RuneCountInString(current),
	}
}

// UnicodeCanonical applies compatibility decomposition (NFKD).
func UnicodeCanonical(text string) string {
	return norm.NFKD.String(text)
}

// NormalizeEmoji replaces every emoji in the table by its gloss padded with
// spaces. Longer sequences are substituted first.
func (n *Normalizer) NormalizeEmoji(text string) string {
	for _, sub := range n.emoji {
		if strings.Contains(text, sub.From) {
			text = strings.ReplaceAll(text, sub.From, " "+sub.To+" ")
		}
	}
	return text
}

func (n *Normalizer) ExpandSlang(text string) string {
	return expandWords(text, n.slang)
}

func (n *Normalizer) ExpandAbbreviations(text string) string {
	return expandWords(text, n.abbreviations)
}

func (n *Normalizer) CorrectSpelling(text string) string {
	return expandWords(text, n.misspellings)
}

// expandWords looks every whitespace-delimited word up in table. The whole
// lowercased word is tried first so entries like "w/" still match, then the
// core with leading and trailing punctuation stripped. Punctuation around a
// matched core is reattached in place.
func expandWords(text string, table map[string]string) string {
	if len(table) == 0 {
		return text
	}
	words := strings.Fields(text)
	for i, word := range words {
		if replacement, ok := table[strings.ToLower(word)]; ok {
			words[i] = replacement
			continue
		}
		lead, core, trail := splitPunctuation(word)
		if core == "" {
			continue
		}
		if replacement, ok := table[strings.ToLower(core)]; ok {
			words[i] = lead + replacement + trail
		}
	}
	return strings.Join(words, " ")
}

func splitPunctuation(word string) (string, string, string) {
	start := strings.IndexFunc(word, textutil.IsWordRune)
	if start < 0 {
		return word, "", ""
	}
	end := strings.LastIndexFunc(word, textutil.IsWordRune)
	_, size := utf8.DecodeRuneInString(word[end:])
	end += size
	return word[:start], word[start:end], word[end:]
}

// NormalizeCase lowercases words longer than two characters that are
// entirely uppercase.
func NormalizeCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if utf8.RuneCountInString(word) > 2 && textutil.IsUpper(word) {
			words[i] = strings.ToLower(word)
		}
	}
	return strings.Join(words, " ")
}

// CollapseRepeated shortens any run of three or more identical characters
// to exactly two.
func CollapseRepeated(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var prev rune
	run := 0
	for i, r := range text {
		if i > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
