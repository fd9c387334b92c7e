package textutil_test

import (
	"testing"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/textutil"
	"github.com/stretchr/testify/assert"
)

func TestIsUpper(t *testing.T) {
	assert.True(t, textutil.IsUpper("WTF!!"))
	assert.True(t, textutil.IsUpper("ÉTÉ"))
	assert.False(t, textutil.IsUpper("123"))
	assert.False(t, textutil.IsUpper("WtF"))
	assert.False(t, textutil.IsUpper(""))
}

func TestWordSpans(t *testing.T) {
	s := "real real, funny!"
	spans := textutil.WordSpans(s)
	var words []string
	for _, sp := range spans {
		words = append(words, s[sp.Start:sp.End])
	}
	assert.Equal(t, []string{"real", "real", "funny"}, words)
	assert.Empty(t, textutil.WordSpans("?!"))
}

func TestCapsRatio(t *testing.T) {
	assert.Equal(t, 0.0, textutil.CapsRatio(""))
	assert.InDelta(t, 0.5, textutil.CapsRatio("STOP now YELLING ok"), 1e-9)
	assert.Equal(t, 0.0, textutil.CapsRatio("OK NO"))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, textutil.Clamp01(-0.5))
	assert.Equal(t, 1.0, textutil.Clamp01(1.5))
	assert.Equal(t, 0.25, textutil.Clamp01(0.25))
}
