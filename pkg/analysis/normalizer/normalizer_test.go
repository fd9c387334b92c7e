package normalizer_test

import (
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := normalizer.New(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"slang abbreviations and punctuation", "wtf r u doing???", "what the fuck are you doing??"},
		{"emoji gloss", "you are 💩", "you are poop"},
		{"emoji with variation selector", "I ❤️ this", "I heart this"},
		{"leading punctuation kept in place", "(lol) ok", "(laugh out loud) ok"},
		{"slash abbreviation", "coffee w/ milk", "coffee with milk"},
		{"spelling", "i dont recieve it", "i do not receive it"},
		{"all caps lowercased", "STOP YELLING at ME", "stop yelling at ME"},
		{"mixed case untouched", "HeLLo there", "HeLLo there"},
		{"elongation collapsed", "sooooo goooood!!!!", "soo good!!"},
		{"whitespace", "  too   many \t spaces \n", "too many spaces"},
		{"compatibility decomposition", "ｆｕｌｌ width", "full width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := normalizer.New(nil)
	inputs := []string{
		"what the fuck are you doing??",
		"this is a perfectly ordinary sentence.",
		"soo good!!",
		"Mixed Case Words Stay",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), in)
	}
}

func TestDescribe(t *testing.T) {
	n := normalizer.New(nil)

	t.Run("records every step", func(t *testing.T) {
		res := n.Describe("OMG u r sooo   LAME")
		require.Len(t, res.StepOutputs, 9)

		names := make([]string, 0, len(res.StepOutputs))
		for _, s := range res.StepOutputs {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{
			normalizer.StepOriginal,
			normalizer.StepUnicode,
			normalizer.StepEmoji,
			normalizer.StepSlang,
			normalizer.StepAbbreviations,
			normalizer.StepSpelling,
			normalizer.StepCase,
			normalizer.StepRepeatedChars,
			normalizer.StepFinalNormalized,
		}, names)

		assert.Equal(t, "OMG u r sooo   LAME", res.StepOutputs[0].Text)
		assert.Equal(t, "oh my god u r sooo LAME", res.StepOutputs[3].Text)
		assert.Equal(t, "oh my god you are sooo LAME", res.StepOutputs[4].Text)
		assert.Equal(t, "oh my god you are sooo lame", res.StepOutputs[6].Text)
		assert.Equal(t, "oh my god you are soo lame", res.NormalizedText)
		assert.True(t, res.Changed)
		assert.Equal(t, 19, res.OriginalLength)
		assert.Equal(t, 26, res.NormalizedLength)
	})

	t.Run("unchanged text", func(t *testing.T) {
		res := n.Describe("hello world")
		assert.False(t, res.Changed)
		assert.Equal(t, "hello world", res.NormalizedText)
	})

	t.Run("empty input", func(t *testing.T) {
		res := n.Describe("")
		assert.Empty(t, res.StepOutputs)
		assert.Empty(t, res.NormalizedText)
		assert.False(t, res.Changed)
	})
}

func TestCustomLexicon(t *testing.T) {
	n := normalizer.New(&normalizer.Lexicon{
		Slang: map[string]string{"noob": "beginner"},
	})
	assert.Equal(t, "u beginner", n.Normalize("u noob"))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "aa bb!!", normalizer.CollapseRepeated("aaaa bbb!!!"))
	assert.Equal(t, "aab", normalizer.CollapseRepeated("aab"))
	assert.Equal(t, "a b", normalizer.NormalizeWhitespace(" a \n b "))
}
